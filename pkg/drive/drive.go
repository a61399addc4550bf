// Package drive uploads tailored documents to Google Drive and returns
// shareable links for the tracking sheet.
package drive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nikogura/docx-tailor/pkg/backoff"
	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

//nolint:gochecknoglobals // Compiled once
var (
	bareFolderID  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	folderURLPath = regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`)
)

// ExtractFolderID accepts either a bare Drive folder ID or a folder URL and
// returns the ID. Unrecognized input is returned unchanged.
func ExtractFolderID(folderURLOrID string) (id string) {
	id = folderURLOrID
	if id == "" {
		return id
	}

	if bareFolderID.MatchString(id) {
		return id
	}

	if m := folderURLPath.FindStringSubmatch(id); m != nil {
		id = m[1]
		return id
	}

	return id
}

// FileLink builds the shareable view URL for an uploaded file.
func FileLink(fileID string) (link string) {
	link = fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
	return link
}

// Client wraps the Drive API for file uploads.
type Client struct {
	svc      *drive.Service
	folderID string
	retry    backoff.Config
}

// NewClient creates a Drive client authenticated with a service account
// credentials file. folderURLOrID may be empty, a folder ID, or a folder URL;
// empty means uploads land in the Drive root.
func NewClient(ctx context.Context, credentialsFile, folderURLOrID string) (client *Client, err error) {
	var data []byte
	data, err = os.ReadFile(credentialsFile) //nolint:gosec // Path comes from user config
	if err != nil {
		err = errors.Wrapf(err, "failed to read credentials file: %s", credentialsFile)
		return client, err
	}

	var creds *google.Credentials
	creds, err = google.CredentialsFromJSON(ctx, data, drive.DriveScope)
	if err != nil {
		err = errors.Wrapf(err, "invalid Google credentials: %s", credentialsFile)
		return client, err
	}

	var svc *drive.Service
	svc, err = drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		err = errors.Wrap(err, "failed to create drive service")
		return client, err
	}

	client = &Client{
		svc:      svc,
		folderID: ExtractFolderID(folderURLOrID),
		retry:    backoff.DefaultConfig,
	}
	return client, err
}

// Upload sends a local file to Drive, makes it readable by anyone with the
// link, and returns the shareable URL.
func (c *Client) Upload(ctx context.Context, localPath string) (link string, err error) {
	var f *os.File
	f, err = os.Open(localPath) //nolint:gosec // Path comes from our own output dir
	if err != nil {
		err = errors.Wrapf(err, "failed to open file for upload: %s", localPath)
		return link, err
	}
	defer f.Close()

	meta := &drive.File{
		Name: filepath.Base(localPath),
	}
	if c.folderID != "" {
		meta.Parents = []string{c.folderID}
	}

	var created *drive.File
	created, err = backoff.Do(ctx, c.retry, func() (result *drive.File, createErr error) {
		// Rewind in case a previous attempt consumed the reader.
		_, seekErr := f.Seek(0, 0)
		if seekErr != nil {
			result = nil
			createErr = seekErr
			return result, createErr
		}
		result, createErr = c.svc.Files.Create(meta).Media(f).Context(ctx).Do()
		return result, createErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to upload file: %s", localPath)
		return link, err
	}

	// Anyone-with-link read access so the sheet link works without sharing.
	perm := &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}
	_, err = backoff.Do(ctx, c.retry, func() (result *drive.Permission, permErr error) {
		result, permErr = c.svc.Permissions.Create(created.Id, perm).Context(ctx).Do()
		return result, permErr
	})
	if err != nil {
		err = errors.Wrapf(err, "failed to set permissions on uploaded file %s", created.Id)
		return link, err
	}

	link = FileLink(created.Id)
	return link, err
}
