package gammaerr

import (
	"fmt"
	"io"
	"os/user"
	"strconv"
	"sync"
)

var required struct {
	mu   sync.Mutex
	gid  int
	name string
	set  bool
}

// SetRequiredGroup records the group a user must be a member of when a
// method fails with DeviceRequireGroup. An empty name is resolved lazily.
func SetRequiredGroup(gid int, name string) {
	required.mu.Lock()
	defer required.mu.Unlock()
	required.gid = gid
	required.name = name
	required.set = true
}

// RequiredGroup returns the group recorded by SetRequiredGroup. The name is
// looked up from the group database when it was not recorded and may still
// be empty if the lookup fails.
func RequiredGroup() (gid int, name string, ok bool) {
	required.mu.Lock()
	defer required.mu.Unlock()
	if !required.set {
		return 0, "", false
	}
	if required.name == "" {
		if g, err := user.LookupGroupId(strconv.Itoa(required.gid)); err == nil {
			required.name = g.Name
		}
	}
	return required.gid, required.name, true
}

// Report writes a perror-style line for code to w. Library kinds are printed
// by name; errno codes use the platform text. Unknown codes fall back to a
// generic description, Report never fails.
func Report(w io.Writer, prefix string, code Code) {
	if prefix != "" {
		prefix += ": "
	}

	switch c := Classify(code); c.Kind {
	case KindOK:
		fmt.Fprintf(w, "%s%s\n", prefix, Describe(code))
	case KindErrno:
		fmt.Fprintf(w, "%s%s\n", prefix, c.Errno.Error())
	case KindLibrary:
		name, _ := Name(code)
		if code != DeviceRequireGroup {
			fmt.Fprintf(w, "%s%s\n", prefix, name)
			return
		}
		gid, group, ok := RequiredGroup()
		switch {
		case !ok:
			fmt.Fprintf(w, "%s%s\n", prefix, name)
		case group == "":
			fmt.Fprintf(w, "%s%s: %d\n", prefix, name, gid)
		default:
			fmt.Fprintf(w, "%s%s: %s (%d)\n", prefix, name, group, gid)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, Describe(code))
	}
}
