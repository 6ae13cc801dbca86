package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const shellHelp = `commands:
  go <path>     open a screen, e.g. go /rooms or go /admin/manage-bookings
  room <id>     open room details
  refresh       reload the current screen
  logout        clear the session
  help          show this help
  quit          leave the shell`

type ticker interface {
	Tick() bool
}

// shell is a read-eval-render loop over the navigation history. Scheduled
// navigations fire on the next input once they are due.
func (a *app) shell(ctx context.Context) error {
	s, err := a.open(ctx, a.env.Nav.Current())
	if err != nil {
		return err
	}
	s.Render(a.out)

	for {
		fmt.Fprintf(a.out, "%s> ", a.env.Nav.Current())
		line, err := a.in.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}

		if t, ok := s.(ticker); ok && t.Tick() {
			a.logger.Debug().Str("path", a.env.Nav.Current()).Msg("scheduled navigation")
		}

		fields := strings.Fields(line)
		next := a.env.Nav.Current()
		if len(fields) > 0 {
			switch fields[0] {
			case "quit", "exit":
				return nil
			case "help":
				fmt.Fprintln(a.out, shellHelp)
				continue
			case "refresh":
			case "go":
				if len(fields) < 2 {
					fmt.Fprintln(a.out, "usage: go <path>")
					continue
				}
				next = "/" + strings.TrimPrefix(fields[1], "/")
			case "room":
				if len(fields) < 2 {
					fmt.Fprintln(a.out, "usage: room <id>")
					continue
				}
				p, err := roomID(fields[1])
				if err != nil {
					fmt.Fprintln(a.out, err)
					continue
				}
				next = p
			case "logout":
				if _, err := a.env.Logout(ctx); err != nil {
					return err
				}
				next = a.env.Nav.Current()
			default:
				fmt.Fprintf(a.out, "unknown command %q, try help\n", fields[0])
				continue
			}
		}

		opened, err := a.open(ctx, next)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", next).Msg("open screen")
			fmt.Fprintln(a.out, err)
			continue
		}
		s = opened
		s.Render(a.out)
	}
}
