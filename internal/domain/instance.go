package domain

import "time"

// Instance represents the singleton server instance configuration.
// It identifies this BookHive server to clients discovering it on the
// local network.
type Instance struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	LocalURL  string    `json:"localUrl,omitempty"`
	RemoteURL string    `json:"remoteUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ID        string    `json:"id"`
}
