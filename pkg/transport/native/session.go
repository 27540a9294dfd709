package native

import (
	"io"

	"golang.org/x/crypto/ssh"
)

// session runs one remote command.
type session interface {
	Run(cmd string, stdin io.Reader, stdout, stderr io.Writer) error
	Close() error
}

// client opens sessions on one connection.
type client interface {
	NewSession() (session, error)
	Close() error
}

// sshClient adapts *ssh.Client to client.
type sshClient struct {
	c *ssh.Client
}

func (w sshClient) NewSession() (session, error) {
	s, err := w.c.NewSession()
	if err != nil {
		return nil, err
	}
	return sshSession{s: s}, nil
}

func (w sshClient) Close() error {
	return w.c.Close()
}

// sshSession adapts *ssh.Session to session.
type sshSession struct {
	s *ssh.Session
}

func (w sshSession) Run(cmd string, stdin io.Reader, stdout, stderr io.Writer) error {
	w.s.Stdin = stdin
	w.s.Stdout = stdout
	w.s.Stderr = stderr
	return w.s.Run(cmd)
}

func (w sshSession) Close() error {
	return w.s.Close()
}
