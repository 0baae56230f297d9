package identity

import (
	"bufio"
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// getent exits 2 when the requested key does not exist in the database.
const getentStatusNotFound = 2

// Getent implements Directory with the getent and id host utilities, the
// canonical interface to whatever NSS backend (files, LDAP, SSSD) the cluster
// login nodes are configured with.
type Getent struct{}

// Group implements Directory.
func (Getent) Group(name string) (Group, error) {
	// #nosec G204
	out, err := exec.Command("getent", "group", name).Output()
	if exitError, ok := err.(*exec.ExitError); ok &&
		exitError.ExitCode() == getentStatusNotFound {
		return Group{}, errors.Wrapf(ErrGroupNotFound, "group %s", name)
	} else if err != nil {
		return Group{}, errors.Wrapf(err, "error while executing getent group %s", name)
	}

	line := strings.TrimSpace(string(out))
	fields := strings.Split(line, ":")
	if len(fields) < 4 {
		return Group{}, errors.Errorf("malformed group entry %q", line)
	}
	gid, err := strconv.Atoi(fields[2])
	if err != nil {
		return Group{}, errors.Wrapf(err, "parsing gid of group entry %q", line)
	}

	group := Group{Name: fields[0], GID: gid}
	if fields[3] != "" {
		group.Members = strings.Split(fields[3], ",")
	}
	return group, nil
}

// Users implements Directory.
func (Getent) Users() ([]User, error) {
	out, err := exec.Command("getent", "passwd").Output()
	if err != nil {
		return nil, errors.Wrap(err, "error while executing getent passwd")
	}

	var users []User
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		user, err := parsePasswd(line)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// User implements Directory.
func (Getent) User(name string) (User, error) {
	// #nosec G204
	out, err := exec.Command("getent", "passwd", name).Output()
	if err != nil {
		return User{}, errors.Wrapf(err, "error while executing getent passwd %s", name)
	}
	return parsePasswd(strings.TrimSpace(string(out)))
}

// Groups implements Directory.
func (Getent) Groups(name string) ([]string, error) {
	// #nosec G204
	out, err := exec.Command("id", "-Gn", name).Output()
	if err != nil {
		return nil, errors.Wrapf(err, "error while executing id -Gn %s", name)
	}
	return strings.Fields(string(out)), nil
}

func parsePasswd(line string) (User, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 5 {
		return User{}, errors.Errorf("malformed passwd entry %q", line)
	}
	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return User{}, errors.Wrapf(err, "parsing uid of passwd entry %q", line)
	}
	gid, err := strconv.Atoi(fields[3])
	if err != nil {
		return User{}, errors.Wrapf(err, "parsing gid of passwd entry %q", line)
	}
	return User{Name: fields[0], UID: uid, GID: gid, Gecos: fields[4]}, nil
}
