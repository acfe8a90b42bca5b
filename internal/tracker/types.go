package tracker

// Queue identifies the task queue a new issue belongs to.
type Queue struct {
	Key string `json:"key"`
}

// CreateIssueRequest is the JSON body of the issue-creation call. Assignee
// and Deadline are omitted entirely when blank; Tags is always sent, as an
// empty array when there are none.
type CreateIssueRequest struct {
	Summary     string   `json:"summary"`
	Queue       Queue    `json:"queue"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline,omitempty"`
	Tags        []string `json:"tags"`
	Assignee    string   `json:"assignee,omitempty"`
}

// Issue is the slice of the creation response the engine cares about. Key is
// the fully qualified QUEUE-123 id used to render links.
type Issue struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Self    string `json:"self"`
}

type apiError struct {
	ErrorMessages []string `json:"errorMessages"`
	StatusCode    int      `json:"statusCode"`
}
