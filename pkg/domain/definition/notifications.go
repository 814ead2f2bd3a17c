package definition

type NotifyKind string

const (
	NotifySuccess NotifyKind = "success"
	NotifyError   NotifyKind = "error"
)

type NotifyOptions struct {
	Kind            NotifyKind `json:"kind"`
	Position        string     `json:"position"`
	AutoCloseMs     int        `json:"autoClose"`
	HideProgressBar bool       `json:"hideProgressBar"`
	CloseOnClick    bool       `json:"closeOnClick"`
	PauseOnHover    bool       `json:"pauseOnHover"`
	Draggable       bool       `json:"draggable"`
	Theme           string     `json:"theme"`
}
