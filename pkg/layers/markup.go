package layers

// Host markup contract. Containers and layers opt in through data
// attributes; activation and disabled state are reflected as classes.
const (
	// AttrContainer marks an element as a container.
	AttrContainer = "data-container"

	// AttrLayer marks a direct child of a container as a layer and names it.
	AttrLayer = "data-layer"

	// AttrFetch marks a link or form whose activation should be intercepted
	// and dispatched as a container request.
	AttrFetch = "data-fetch"

	// AttrTarget overrides automatic container resolution with a selector.
	AttrTarget = "data-target"

	// AttrPosition requests an insertion position for the fetched layer.
	AttrPosition = "data-position"

	// AttrURL is the navigation URL pushed into history when a layer
	// carrying it is activated.
	AttrURL = "data-url"

	// AttrTitle is the history entry title for a layer's navigation URL.
	AttrTitle = "data-title"

	// ActiveClass marks the active layer of a container.
	ActiveClass = "active"

	// DisabledClass marks a disabled container or layer.
	DisabledClass = "disabled"

	// PositionPrevious is the reserved position value requesting insertion
	// before the current layer instead of after it.
	PositionPrevious = "previous"
)
