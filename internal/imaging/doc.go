// Package imaging converts between image files and the intensity grids and
// masks used by the segmenter.
//
// The package covers both ends of a segmentation run:
//
//   - Input: ImageCache loads and caches decoded files, CropRegion selects a
//     region of interest, and ToGrid blurs, downscales and converts an image
//     to the row-major grayscale grid consumed by package segment.
//   - Output: MaskImage renders a mask, ResizeMask brings a downscaled mask
//     back to source size, Overlay tints the foreground over the original
//     picture, and ComputeMaskStats summarises both sides of the cut.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Masks are []bool in row-major order, mask[y*width+x], matching
// segment.Segmentation.Mask.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and never modify their input images.
//
// # Performance Considerations
//
// Segmentation cost grows quickly with the pixel count, so ToGrid's
// MaxDimension is the main lever for large photographs. Use Evict() or Clear()
// to bound cache memory in long-running processes.
package imaging
