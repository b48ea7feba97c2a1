package sync

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/devtonic-net/unisync/internal/utils"
)

// IgnoreFileName is the optional rules file read from the source root.
const IgnoreFileName = "unisyncignore"

var defaultIgnoreLines = []string{
	IgnoreFileName,
	lockFileName,
}

// IgnoreList filters paths out of tree walks. Rules use gitignore syntax
// and are loaded from <baseDir>/unisyncignore on top of the built-in rules.
type IgnoreList struct {
	baseDir string
	ignore  *gitignore.GitIgnore
}

func NewIgnoreList(baseDir string) *IgnoreList {
	return &IgnoreList{baseDir: baseDir}
}

func (l *IgnoreList) Load() {
	ignorePath := filepath.Join(l.baseDir, IgnoreFileName)
	lines := append([]string{}, defaultIgnoreLines...)

	if utils.FileExists(ignorePath) {
		file, err := os.Open(ignorePath)
		if err != nil {
			slog.Warn("failed to open ignore file", "path", ignorePath, "error", err)
		} else {
			defer file.Close()

			rules := 0
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				if line := scanner.Text(); line != "" {
					lines = append(lines, line)
					rules++
				}
			}

			if err := scanner.Err(); err != nil {
				slog.Warn("error reading ignore file", "path", ignorePath, "error", err)
			} else {
				slog.Info("loaded ignore file", "path", ignorePath, "rules", rules)
			}
		}
	}

	l.ignore = gitignore.CompileIgnoreLines(lines...)
}

func (l *IgnoreList) ShouldIgnore(path string) bool {
	if l.ignore == nil {
		l.Load()
	}
	return l.ignore.MatchesPath(path)
}
