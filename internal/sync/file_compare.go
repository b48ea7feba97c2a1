package sync

import (
	"fmt"
	"os"

	"github.com/devtonic-net/unisync/internal/utils"
)

// Comparator decides whether two regular files hold identical content.
type Comparator interface {
	FilesEqual(a, b string) (bool, error)
}

// HashComparator rejects on size first, then compares full MD5 digests.
// Two files with different byte content are never reported equal.
type HashComparator struct{}

func (HashComparator) FilesEqual(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", a, err)
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", b, err)
	}
	if !infoA.Mode().IsRegular() || !infoB.Mode().IsRegular() {
		return false, nil
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	hashA, err := utils.FileHash(a)
	if err != nil {
		return false, err
	}
	hashB, err := utils.FileHash(b)
	if err != nil {
		return false, err
	}

	return hashA == hashB, nil
}
