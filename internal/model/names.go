package model

import "strings"

// QualifiedName joins a repository name and a module or option name into
// the "repository:name" form used across repository boundaries.
func QualifiedName(repo, name string) string {
	return repo + ":" + name
}

// SplitQualified splits a qualified name into its repository and local
// components. It fails with an identity error unless the name contains
// exactly one ':' separator and both components are non-empty.
func SplitQualified(qname string) (repo, name string, err error) {
	parts := strings.Split(qname, ":")
	if len(parts) != 2 {
		return "", "", Errf(ErrMalformedName,
			"name %q must contain exactly one ':' separating repository and module name", qname)
	}
	if parts[0] == "" || parts[1] == "" {
		return "", "", Errf(ErrMalformedName,
			"name %q has an empty repository or module component", qname)
	}
	return parts[0], parts[1], nil
}
