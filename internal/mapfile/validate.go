package mapfile

import (
	"fmt"
	"strings"
)

// Validate checks a map file before conversion. Returns all errors found.
func Validate(f *MapFile) []error {
	var errs []error

	if f.Version != 0 && f.Version != Version {
		errs = append(errs, fmt.Errorf("version: unsupported value %d (expected %d)", f.Version, Version))
	}
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}

	seen := make(map[string]bool)
	for i, c := range f.Categories {
		prefix := fmt.Sprintf("categories[%d]", i)

		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate category %q", prefix, name))
		} else {
			seen[name] = true
		}

		for j, m := range c.Members {
			if strings.TrimSpace(m.Name) == "" {
				errs = append(errs, fmt.Errorf("%s.members[%d].name is required", prefix, j))
			}
		}
	}

	for i, u := range f.Unassigned {
		if strings.TrimSpace(u.Name) == "" {
			errs = append(errs, fmt.Errorf("unassigned[%d].name is required", i))
		}
	}

	return errs
}
