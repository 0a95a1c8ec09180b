// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

const (
	verbAdd            = "ADD"
	verbDelete         = "DELETE"
	verbListChildren   = "LISTCH"
	verbGetNode        = "GETNODE"
	verbGetContent     = "GETCONT"
	verbUpdate         = "UPDATE"
	listChildrenSuffix = ".1.json"
	contentSuffix      = ".json"
)

func describe(verb string, target string) string {
	return fmt.Sprintf("%8s %s", verb, target)
}

func describeWithType(verb string, target string, rt ResponseType) string {
	return fmt.Sprintf("%8s %s (%s)", verb, target, rt)
}

var (
	_ it.Command[it.Void] = (*addNodeCommand)(nil)
	_ it.Command[it.Void] = (*deleteNodeCommand)(nil)
	_ it.Command[string]  = (*listChildrenCommand)(nil)
	_ it.Command[[]byte]  = (*getNodeCommand)(nil)
	_ it.Command[string]  = (*getNodeContentCommand)(nil)
	_ it.Command[it.Void] = (*updateContentCommand)(nil)
)

// NewAddNodeCommand returns a command that creates the node described by
// fileInfo. When fileInfo.Location is a regular file its content is uploaded
// as the node's binary.
func (c *Client) NewAddNodeCommand(fileInfo FileInfo) it.Command[it.Void] {
	return trace.Wrap[it.Void](&addNodeCommand{client: c, fileInfo: fileInfo}, c.binding)
}

// NewDeleteNodeCommand returns a command that deletes the node described by
// fileInfo.
func (c *Client) NewDeleteNodeCommand(fileInfo FileInfo) it.Command[it.Void] {
	return trace.Wrap[it.Void](&deleteNodeCommand{client: c, fileInfo: fileInfo}, c.binding)
}

// NewListChildrenNodeCommand returns a command that fetches the node at path
// and its direct children.
func (c *Client) NewListChildrenNodeCommand(path string, responseType ResponseType) it.Command[string] {
	return trace.Wrap[string](&listChildrenCommand{client: c, path: path, responseType: responseType}, c.binding)
}

// NewGetNodeCommand returns a command that fetches the raw node at path.
func (c *Client) NewGetNodeCommand(path string) it.Command[[]byte] {
	return trace.Wrap[[]byte](&getNodeCommand{client: c, path: path}, c.binding)
}

// NewGetNodeContentCommand returns a command that fetches the properties of
// the node at path.
func (c *Client) NewGetNodeContentCommand(path string, responseType ResponseType) it.Command[string] {
	return trace.Wrap[string](&getNodeContentCommand{client: c, path: path, responseType: responseType}, c.binding)
}

// NewUpdateContentNodeCommand returns a command that sets properties on the
// node at fileInfo.RelativeLocation.
func (c *Client) NewUpdateContentNodeCommand(fileInfo FileInfo, properties map[string]string) it.Command[it.Void] {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}

	return trace.Wrap[it.Void](&updateContentCommand{client: c, fileInfo: fileInfo, properties: props}, c.binding)
}

type addNodeCommand struct {
	client   *Client
	fileInfo FileInfo
}

func (a *addNodeCommand) Execute() it.Result[it.Void] {
	body, contentType, err := addNodeBody(a.fileInfo)
	if err != nil {
		return it.Failure[it.Void](it.NewTransportError(err))
	}

	res, rerr := a.client.post(a.fileInfo.RelativeLocation, body, contentType)

	return result(res, rerr, noValue)
}

func (a *addNodeCommand) Description() string {
	return describe(verbAdd, a.fileInfo.NodePath())
}

type deleteNodeCommand struct {
	client   *Client
	fileInfo FileInfo
}

func (d *deleteNodeCommand) Execute() it.Result[it.Void] {
	body, contentType, err := formBody([][2]string{{":operation", "delete"}})
	if err != nil {
		return it.Failure[it.Void](it.NewTransportError(err))
	}

	res, rerr := d.client.post(d.fileInfo.NodePath(), body, contentType)

	return result(res, rerr, noValue)
}

func (d *deleteNodeCommand) Description() string {
	return describe(verbDelete, d.fileInfo.NodePath())
}

type listChildrenCommand struct {
	client       *Client
	path         string
	responseType ResponseType
}

func (l *listChildrenCommand) Execute() it.Result[string] {
	res, rerr := l.client.get(l.path + listChildrenSuffix)

	return result(res, rerr, bodyString)
}

func (l *listChildrenCommand) Description() string {
	return describeWithType(verbListChildren, l.path, l.responseType)
}

type getNodeCommand struct {
	client *Client
	path   string
}

func (g *getNodeCommand) Execute() it.Result[[]byte] {
	res, rerr := g.client.get(g.path)

	return result(res, rerr, bodyBytes)
}

func (g *getNodeCommand) Description() string {
	return describe(verbGetNode, g.path)
}

type getNodeContentCommand struct {
	client       *Client
	path         string
	responseType ResponseType
}

func (g *getNodeContentCommand) Execute() it.Result[string] {
	res, rerr := g.client.get(g.path + contentSuffix)

	return result(res, rerr, bodyString)
}

func (g *getNodeContentCommand) Description() string {
	return describeWithType(verbGetContent, g.path, g.responseType)
}

type updateContentCommand struct {
	client     *Client
	fileInfo   FileInfo
	properties map[string]string
}

func (u *updateContentCommand) Execute() it.Result[it.Void] {
	keys := make([]string, 0, len(u.properties))
	for k := range u.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([][2]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, [2]string{k, u.properties[k]})
	}

	body, contentType, err := formBody(fields)
	if err != nil {
		return it.Failure[it.Void](it.NewTransportError(err))
	}

	res, rerr := u.client.post(u.fileInfo.RelativeLocation, body, contentType)

	return result(res, rerr, noValue)
}

func (u *updateContentCommand) Description() string {
	return describe(verbUpdate, u.fileInfo.NodePath())
}

func (c *Client) get(path string) (*response, *it.RepositoryError) {
	req, err := http.NewRequest(http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, it.NewTransportError(fmt.Errorf("generating request: %w", err))
	}

	return c.do(req)
}

func (c *Client) post(path string, body io.Reader, contentType string) (*response, *it.RepositoryError) {
	req, err := http.NewRequest(http.MethodPost, c.url(path), body)
	if err != nil {
		return nil, it.NewTransportError(fmt.Errorf("generating request: %w", err))
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req)
}

// addNodeBody builds the multipart body of an add request. The file part is
// only present when location is a regular file.
func addNodeBody(fileInfo FileInfo) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	stat, err := os.Stat(fileInfo.Location)
	if err == nil && stat.Mode().IsRegular() {
		if err := writeFilePart(w, fileInfo.Name, fileInfo.Location); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, name string, location string) error {
	f, err := os.Open(location)
	if err != nil {
		return fmt.Errorf("opening %s: %w", location, err)
	}
	defer f.Close()

	part, err := w.CreateFormFile(name, filepath.Base(location))
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", location, err)
	}

	return nil
}

// formBody builds a multipart body with one string field per pair, in order.
func formBody(fields [][2]string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f[0], err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
