package configs

import (
	"os"
	"path/filepath"
)

// Search returns the existing files named by names, looked up in the working
// directory, the user config directory under app, and /etc, in that order.
func Search(app string, names ...string) (ret []string) {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, app))
	}
	dirs = append(dirs, "/etc")
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			ret = append(ret, path)
		}
	}
	return
}
