package version

import (
	"fmt"
	"runtime"
)

// Version is the application version. Can be overridden at build time via:
//
//	go build -ldflags "-X winsbygroup.com/custbook/internal/version.Version=1.2.3"
var Version = "1.0"

// Banner prints identifying information about the server.
func Banner() string {
	return fmt.Sprintf("%s\nCustbook (v%s, %s)\n", logo, Version, runtime.Version())
}

// Standard figlet font
const logo = `
   ____          _   _                 _
  / ___|   _ ___| |_| |__   ___   ___ | | __
 | |  | | | / __| __| '_ \ / _ \ / _ \| |/ /
 | |__| |_| \__ \ |_| |_) | (_) | (_) |   <
  \____\__,_|___/\__|_.__/ \___/ \___/|_|\_\
`
