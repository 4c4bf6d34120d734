package render

import "image/color"

// Board palette, dark kiosk theme.
var (
	darkBG        = color.RGBA{18, 18, 20, 255}
	cardBG        = color.RGBA{44, 44, 46, 255}
	subCardBG     = color.RGBA{60, 60, 65, 255}
	cardShadow    = color.RGBA{0, 0, 0, 60}
	textPrimary   = color.RGBA{255, 255, 255, 255}
	textSecondary = color.RGBA{174, 174, 178, 255}
	white         = color.RGBA{255, 255, 255, 255}
	orange        = color.RGBA{255, 140, 0, 255}
	red           = color.RGBA{255, 69, 58, 255}
	blue          = color.RGBA{0, 122, 255, 255}
	accent        = orange
)
