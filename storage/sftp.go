package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/ArvinYang1925/kaiso-meow-backend/logger"
)

// SFTP pushes HLS output to a static media host over SFTP. The host's web
// server is expected to serve BaseDir at BaseURL.
type SFTP struct {
	Host     string
	Port     string
	User     string
	Password string
	BaseDir  string
	BaseURL  string
}

func (s *SFTP) UploadDir(ctx context.Context, prefix, dir, entry string) (string, error) {
	client, closeAll, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer closeAll()

	files, err := listFiles(dir)
	if err != nil {
		return "", fmt.Errorf("list output dir: %w", err)
	}

	remoteDir := path.Join(s.BaseDir, prefix)
	if err := client.MkdirAll(remoteDir); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", remoteDir, err)
	}
	for _, rel := range files {
		if err := uploadSFTPFile(client, dir, remoteDir, rel); err != nil {
			return "", fmt.Errorf("upload %s: %w", rel, err)
		}
	}
	logger.Infof("uploaded %d files to sftp://%s%s", len(files), s.Host, remoteDir)
	return joinURL(s.BaseURL, prefix, entry), nil
}

func (s *SFTP) DeletePrefix(ctx context.Context, prefix string) error {
	client, closeAll, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer closeAll()

	remoteDir := path.Join(s.BaseDir, prefix)
	entries, err := client.ReadDir(remoteDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read remote dir %s: %w", remoteDir, err)
	}
	for _, entry := range entries {
		if err := client.Remove(path.Join(remoteDir, entry.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", entry.Name(), err)
		}
	}
	if err := client.RemoveDirectory(remoteDir); err != nil {
		return fmt.Errorf("remove dir %s: %w", remoteDir, err)
	}
	return nil
}

// connect dials the host and returns an SFTP client plus a function that
// tears the whole connection down.
func (s *SFTP) connect(ctx context.Context) (*sftp.Client, func(), error) {
	if s.Host == "" || s.User == "" {
		return nil, nil, fmt.Errorf("sftp backend missing host or user")
	}

	config := &ssh.ClientConfig{
		User:            s.User,
		Auth:            []ssh.AuthMethod{ssh.Password(s.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	addr := net.JoinHostPort(s.Host, s.Port)
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	sshClient := ssh.NewClient(clientConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("sftp client: %w", err)
	}

	closeAll := func() {
		client.Close()
		sshClient.Close()
	}
	return client, closeAll, nil
}

func uploadSFTPFile(client *sftp.Client, dir, remoteDir, rel string) error {
	src, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := client.Create(path.Join(remoteDir, rel))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
