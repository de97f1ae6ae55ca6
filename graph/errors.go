package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidName is returned when a mutation refers to a person whose
	// name is empty, has surrounding whitespace or contains one of the
	// reserved characters.
	ErrInvalidName = errors.New("invalid person name")
)

// ReservedNameChars lists the characters a person name may not contain. They
// delimit names and friend lists in adjacency list files.
const ReservedNameChars = ":,\r\n"

// ValidateNames returns an error wrapping ErrInvalidName if any of the
// provided names is empty, carries leading or trailing whitespace or
// contains a character from ReservedNameChars.
func ValidateNames(names ...string) error {
	for _, name := range names {
		if err := validateName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAdjacency checks every person mentioned by an adjacency map. Empty
// friend names are tolerated since importers skip them; empty keys are not.
func ValidateAdjacency(adjacency map[string][]string) error {
	for person, friends := range adjacency {
		if err := validateName(person); err != nil {
			return fmt.Errorf("adjacency key: %w", err)
		}
		for _, friend := range friends {
			if friend == "" {
				continue
			}
			if err := validateName(friend); err != nil {
				return fmt.Errorf("friend of %q: %w", person, err)
			}
		}
	}
	return nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%q has surrounding whitespace: %w", name, ErrInvalidName)
	case strings.ContainsAny(name, ReservedNameChars):
		return fmt.Errorf("%q contains a reserved character: %w", name, ErrInvalidName)
	}
	return nil
}
