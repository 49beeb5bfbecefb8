package model

// Issue is a JIRA issue holding a Zephyr test.
type Issue struct {
	ID      int64   `json:"id"`
	Key     string  `json:"key"`
	Project Project `json:"project"`
}
