package assets

import "errors"

// Not-found errors. AssetResolver falls back to the embedded set on these
// and only these.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrScriptNotFound   = errors.New("automation script not found")
)

var (
	// ErrInvalidAssetName reports a name ValidateName rejects for its kind.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath reports an asset directory that is missing,
	// unreadable or not a directory.
	ErrInvalidBasePath = errors.New("invalid asset directory")

	// ErrAssetRead reports an asset that exists but could not be read.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal reports an asset that resolves, through a symlink,
	// outside the asset directory.
	ErrPathTraversal = errors.New("asset outside asset directory")
)
