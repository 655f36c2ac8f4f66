package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends a finished ESC/POS job to a thermal printer.
type Printer interface {
	Print(ctx context.Context, job []byte) error
	// Available reports whether the device can currently be reached.
	Available(ctx context.Context) bool
	Kind() string
}

// Config selects and addresses a printer.
type Config struct {
	Type    string // usb, network or none
	USBPath string // e.g. /dev/usb/lp0
	Address string // host:port, e.g. 192.168.1.100:9100
}

// New builds the printer described by cfg.
func New(cfg Config) (Printer, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: usb path is required for usb printers")
		}
		return &deviceFile{path: cfg.USBPath}, nil
	case "network":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return &socket{address: cfg.Address, dialTimeout: 5 * time.Second}, nil
	case "none", "":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown type %q (use usb, network or none)", cfg.Type)
	}
}

// deviceFile writes jobs to a character device such as /dev/usb/lp0.
type deviceFile struct {
	path string
}

func (p *deviceFile) Print(ctx context.Context, job []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *deviceFile) Available(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *deviceFile) Kind() string { return "usb" }

// socket sends jobs over raw TCP (port 9100 on most printers).
type socket struct {
	address     string
	dialTimeout time.Duration
}

func (p *socket) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *socket) Print(ctx context.Context, job []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *socket) Available(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *socket) Kind() string { return "network" }

// Discard accepts and drops every job. Used when no printer is configured.
type Discard struct{}

func (Discard) Print(context.Context, []byte) error { return nil }
func (Discard) Available(context.Context) bool      { return false }
func (Discard) Kind() string                        { return "none" }
