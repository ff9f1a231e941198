package main

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/exam-client/internal/errors"
	"github.com/urfave/cli/v3"
)

func parseID(name, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, apperrors.Local("", fmt.Sprintf("%s must be a positive number.", name))
	}
	return id, nil
}

// optionalID reads an ID flag; unset or empty means nil.
func optionalID(cmd *cli.Command, flag string) (*int, error) {
	raw := cmd.String(flag)
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(flag, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// argID parses the i-th positional argument as an ID.
func argID(cmd *cli.Command, i int, name string) (int, error) {
	if cmd.NArg() <= i {
		return 0, apperrors.Local("", fmt.Sprintf("Missing %s argument.", name))
	}
	return parseID(name, cmd.Args().Get(i))
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
