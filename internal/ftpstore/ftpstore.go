// Package ftpstore stores catalog and blog images on a remote FTP host and
// hands back their public URLs. Each operation dials a fresh session; the
// call is synchronous and failures surface directly with no retry.
package ftpstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/inkstone/bookstore-api/internal/config"
)

type Client struct {
	addr      string
	user      string
	password  string
	uploadDir string
	publicURL string
}

func NewClient(cfg config.FTP) *Client {
	return &Client{
		addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		user:      cfg.User,
		password:  cfg.Password,
		uploadDir: cfg.UploadDir,
		publicURL: cfg.PublicURL,
	}
}

func (c *Client) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(c.addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("dial ftp host: %w", err)
	}
	if err := conn.Login(c.user, c.password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("ftp login: %w", err)
	}
	return conn, nil
}

// Upload stores data under the configured remote directory and returns the
// file's public URL.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = conn.Quit() }()

	// MakeDir fails when the directory already exists; that is fine.
	_ = conn.MakeDir(c.uploadDir)

	remotePath := path.Join(c.uploadDir, name)
	if err := conn.Stor(remotePath, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("store %s: %w", remotePath, err)
	}

	return c.publicURL + "/" + name, nil
}

// Delete removes a previously uploaded file, identified by the public URL
// Upload returned.
func (c *Client) Delete(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("parse file url: %w", err)
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Quit() }()

	remotePath := path.Join(c.uploadDir, path.Base(parsed.Path))
	if err := conn.Delete(remotePath); err != nil {
		return fmt.Errorf("delete %s: %w", remotePath, err)
	}

	return nil
}
