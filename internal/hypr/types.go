package hypr

// Workspace is the compact workspace reference embedded in client and
// monitor documents.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Client is one window as reported by j/clients and j/activewindow.
type Client struct {
	Address        string    `json:"address"`
	Mapped         bool      `json:"mapped"`
	Hidden         bool      `json:"hidden"`
	At             []int     `json:"at"`
	Size           []int     `json:"size"`
	Workspace      Workspace `json:"workspace"`
	Floating       bool      `json:"floating"`
	Monitor        int       `json:"monitor"`
	Class          string    `json:"class"`
	Title          string    `json:"title"`
	InitialClass   string    `json:"initialClass"`
	InitialTitle   string    `json:"initialTitle"`
	PID            int       `json:"pid"`
	Xwayland       bool      `json:"xwayland"`
	Pinned         bool      `json:"pinned"`
	Fullscreen     bool      `json:"fullscreen"`
	FullscreenMode int       `json:"fullscreenMode"`
}

// Monitor is one output as reported by j/monitors.
type Monitor struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	RefreshRate     float64   `json:"refreshRate"`
	X               int       `json:"x"`
	Y               int       `json:"y"`
	ActiveWorkspace Workspace `json:"activeWorkspace"`
	Reserved        []int     `json:"reserved"`
	Scale           float64   `json:"scale"`
	Transform       int       `json:"transform"`
	Focused         bool      `json:"focused"`
	DpmsStatus      bool      `json:"dpmsStatus"`
}

// Geometry is the active window placement in compositor logical pixels.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	X      int `json:"x"`
	Y      int `json:"y"`
}
