// Package pyversion models Python interpreter versions and the static table
// of __future__ features that became mandatory at a given version.
package pyversion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion is returned for strings that are not MAJOR.MINOR.
var ErrInvalidVersion = errors.New("invalid python version")

// Version is a MAJOR.MINOR interpreter version.
type Version struct {
	Major int
	Minor int
}

// Python3 is the first version whose classes implicitly derive from object.
var Python3 = Version{Major: 3, Minor: 0}

// Parse reads "3", "3.8" or "3.8.10"; the micro component is ignored.
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	nums := make([]int, 0, 2)
	for i, p := range parts {
		if i == 2 {
			break
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums = append(nums, n)
	}
	v := Version{Major: nums[0]}
	if len(nums) > 1 {
		v.Minor = nums[1]
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tables and tests.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0 or 1 as v is older than, equal to or newer than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		if v.Major < o.Major {
			return -1
		}
		return 1
	case v.Minor != o.Minor:
		if v.Minor < o.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// AtLeast reports whether v >= o.
func (v Version) AtLeast(o Version) bool {
	return v.Compare(o) >= 0
}

// Feature is a __future__ import together with the version from which the
// behaviour it enables is always on.
type Feature struct {
	Name      string
	Mandatory Version
}

var futures = []Feature{
	{Name: "nested_scopes", Mandatory: Version{2, 2}},
	{Name: "generators", Mandatory: Version{2, 3}},
	{Name: "with_statement", Mandatory: Version{2, 6}},
	{Name: "division", Mandatory: Version{3, 0}},
	{Name: "absolute_import", Mandatory: Version{3, 0}},
	{Name: "print_function", Mandatory: Version{3, 0}},
	{Name: "unicode_literals", Mandatory: Version{3, 0}},
	{Name: "generator_stop", Mandatory: Version{3, 7}},
}

// Futures returns a copy of the feature table in declaration order.
func Futures() []Feature {
	out := make([]Feature, len(futures))
	copy(out, futures)
	return out
}

// UnneededFutures returns the names of all features already mandatory at
// target, in table order.
func UnneededFutures(target Version) []string {
	var names []string
	for _, f := range futures {
		if target.AtLeast(f.Mandatory) {
			names = append(names, f.Name)
		}
	}
	return names
}
