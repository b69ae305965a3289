package main

import (
	"encoding/json"
	"os"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/diag"
	"github.com/vlsicore/subnet/library"
)

func loadSubnet(path string) (*subnet.Subnet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &subnet.Subnet{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func saveSubnet(path string, s *subnet.Subnet) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// loadLibrary reads a JSON-encoded library.Feed (the materialized
// shape spec §1's Liberty/.lib loader would otherwise emit as a
// stream) and builds a Library from it. Any LIBRARY_UNSUPPORTED cells
// library.Load skipped are surfaced through logger as warnings rather
// than silently dropped (spec §7: "Skipped with a warning").
func loadLibrary(path string, logger *diag.Logger) (*library.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var feed library.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	res, err := library.Load(feed)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		logger.Warn(w.Error())
	}
	return res.Library, nil
}
