package keysource

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// GroupProvider expands an operating-system group into its member users
// and collects each member's keys through the wrapped per-user provider.
// os/user offers no membership enumeration, so the group database is
// read directly.
type GroupProvider struct {
	// Members resolves individual usernames to key text.
	Members Provider

	// GroupFile overrides the group database location; empty means
	// /etc/group.
	GroupFile string
}

func (p GroupProvider) Lookup(ctx context.Context, group string) (string, error) {
	members, err := p.members(group)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, member := range members {
		text, err := p.Members.Lookup(ctx, member)
		if err != nil {
			return "", fmt.Errorf("expanding group %s: %w", group, err)
		}
		b.WriteString(text)
		if text != "" && !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (p GroupProvider) members(group string) ([]string, error) {
	path := p.GroupFile
	if path == "" {
		path = "/etc/group"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading group database: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// name:passwd:gid:member,member,...
		fields := strings.Split(line, ":")
		if len(fields) < 4 || fields[0] != group {
			continue
		}
		var members []string
		for _, m := range strings.Split(fields[3], ",") {
			if m = strings.TrimSpace(m); m != "" {
				members = append(members, m)
			}
		}
		return members, nil
	}

	return nil, fmt.Errorf("group %q not found", group)
}
