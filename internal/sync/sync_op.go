package sync

type OpType string

const (
	OpCreateDir     OpType = "CreateDir"
	OpCopyFile      OpType = "CopyFile"
	OpOverwriteFile OpType = "OverwriteFile"
	OpDeleteFile    OpType = "DeleteFile"
	OpDeleteDir     OpType = "DeleteDir"
)

// Operation is one planned filesystem action on the replica, identified by
// the relative path it touches. Operations are produced by Plan and
// consumed once, in order, by the Executor.
type Operation struct {
	Type OpType
	Path string
}

func createOp(e PathEntry) Operation {
	if e.IsDir() {
		return Operation{Type: OpCreateDir, Path: e.Path}
	}
	return Operation{Type: OpCopyFile, Path: e.Path}
}

func deleteOp(e PathEntry) Operation {
	if e.IsDir() {
		return Operation{Type: OpDeleteDir, Path: e.Path}
	}
	return Operation{Type: OpDeleteFile, Path: e.Path}
}
