package version

import (
	"fmt"
	"runtime"
)

// 由 -ldflags "-X" 在构建时写入
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTS   = "unknown"
)

func GetVersion() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", Version, GitCommit, BuildTS, runtime.Version())
}

func Printer() {
	fmt.Println(GetVersion())
}
