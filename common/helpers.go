package common

import "os/user"

// IsRunningAsRoot reports whether the process runs with uid 0. barod needs it to
// install itself as a system service.
func IsRunningAsRoot() bool {
	usr, err := user.Current()
	if err != nil {
		return false
	}
	return usr.Uid == "0"
}
