// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"fmt"
	"strings"

	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

// Repository creates commands against a remote content repository.
type Repository interface {
	NewAddNodeCommand(fileInfo FileInfo) it.Command[it.Void]
	NewDeleteNodeCommand(fileInfo FileInfo) it.Command[it.Void]
	NewListChildrenNodeCommand(path string, responseType ResponseType) it.Command[string]
	NewGetNodeCommand(path string) it.Command[[]byte]
	NewGetNodeContentCommand(path string, responseType ResponseType) it.Command[string]
	NewUpdateContentNodeCommand(fileInfo FileInfo, properties map[string]string) it.Command[it.Void]
	BindTracer(tracer trace.Tracer)
	UnbindTracer()
	Info() RepositoryInfo
}

// RepositoryInfo describes how to connect to the repository.
type RepositoryInfo struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// String implements the fmt.Stringer interface. The password is masked.
func (r RepositoryInfo) String() string {
	password := ""
	if r.Password != "" {
		password = "********"
	}

	return fmt.Sprintf(`{
URL: %s
Host: %s
Port: %d
Username: %s
Password: %s
}`,
		r.URL,
		r.Host,
		r.Port,
		r.Username,
		password,
	)
}

// FileInfo describes a local artifact and where it lives in the repository.
type FileInfo struct {
	// Name is the node name.
	Name string
	// RelativeLocation is the repository path of the parent node.
	RelativeLocation string
	// Location is the local source path, it's only read when adding a node.
	Location string
}

// NodePath is the repository path of the node, RelativeLocation/Name. A
// RelativeLocation of "/" names a node directly below the root.
func (f FileInfo) NodePath() string {
	return strings.TrimRight(f.RelativeLocation, "/") + "/" + f.Name
}

// ResponseType is the requested representation of a node.
type ResponseType int

const (
	// JSON requests the node rendered as JSON.
	JSON ResponseType = iota
	// XML requests the node rendered as XML.
	XML
)

func (r ResponseType) String() string {
	switch r {
	case JSON:
		return "JSON"
	case XML:
		return "XML"
	default:
		return "UNKNOWN"
	}
}

// ParseResponseType parses a response type name, either all upper case
// ("JSON", "XML") or all lower case ("json", "xml").
func ParseResponseType(s string) (ResponseType, error) {
	switch s {
	case "JSON", "json":
		return JSON, nil
	case "XML", "xml":
		return XML, nil
	default:
		return JSON, fmt.Errorf("unknown response type: %s", s)
	}
}
