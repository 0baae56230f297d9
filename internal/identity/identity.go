// Package identity resolves users, groups, and group membership from the
// cluster's identity directory.
package identity

import (
	"strings"

	"github.com/pkg/errors"
)

// MissingField is the placeholder recorded when a gecos lookup fails or the
// field is absent.
const MissingField = "NA"

// Gecos field indices, comma-delimited per site convention.
const (
	gecosNameField  = 0
	gecosEmailField = 4
)

// ErrGroupNotFound indicates the requested group does not exist in the
// identity directory. It is fatal to report generation.
var ErrGroupNotFound = errors.New("group not found in identity directory")

// User is one passwd entry.
type User struct {
	Name  string
	UID   int
	GID   int
	Gecos string
}

// Group is one group entry.
type Group struct {
	Name    string
	GID     int
	Members []string
}

// Directory is the identity directory the report pulls membership and user
// details from.
type Directory interface {
	// Group returns the named group, or ErrGroupNotFound.
	Group(name string) (Group, error)
	// Users returns every user in the directory.
	Users() ([]User, error)
	// User returns the named user.
	User(name string) (User, error)
	// Groups returns the names of all groups the user belongs to, primary
	// and secondary.
	Groups(name string) ([]string, error)
}

// Affiliation classifies how a user belongs to the reported group.
type Affiliation int

// Affiliation values. Unknown is only ever seen when a record reaches the
// merged dataset without a membership classification, which indicates a
// pipeline defect.
const (
	Unknown Affiliation = iota
	Primary
	Secondary
)

func (a Affiliation) String() string {
	switch a {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// ResolveMembers returns the affiliation of every member of the named group.
// Users on the group's member list are secondary; users whose primary GID is
// the group's GID are primary, and primary wins when a user appears in both.
func ResolveMembers(dir Directory, groupname string) (map[string]Affiliation, error) {
	group, err := dir.Group(groupname)
	if err != nil {
		return nil, err
	}

	members := make(map[string]Affiliation, len(group.Members))
	for _, name := range group.Members {
		members[name] = Secondary
	}

	users, err := dir.Users()
	if err != nil {
		return nil, errors.Wrap(err, "scanning user directory for primary members")
	}
	for _, user := range users {
		if user.GID == group.GID {
			members[user.Name] = Primary
		}
	}
	return members, nil
}

// DisplayName returns the user's name from the gecos field, or MissingField if
// the user or field cannot be resolved.
func DisplayName(dir Directory, username string) string {
	return gecosField(dir, username, gecosNameField)
}

// Email returns the user's email address from the gecos field, or MissingField
// if the user or field cannot be resolved.
func Email(dir Directory, username string) string {
	return gecosField(dir, username, gecosEmailField)
}

func gecosField(dir Directory, username string, index int) string {
	user, err := dir.User(username)
	if err != nil {
		return MissingField
	}
	fields := strings.Split(user.Gecos, ",")
	if index >= len(fields) || strings.TrimSpace(fields[index]) == "" {
		return MissingField
	}
	return strings.TrimSpace(fields[index])
}
