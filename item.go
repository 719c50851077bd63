package tfs

import "strings"

// ItemType distinguishes files from folders in server records.
type ItemType int8

const (
	// ItemFile marks a file item.
	ItemFile ItemType = iota

	// ItemFolder marks a folder item.
	ItemFolder
)

// String returns a human-readable representation of the ItemType.
func (t ItemType) String() string {
	switch t {
	case ItemFile:
		return "file"
	case ItemFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ChangeType is a bitmask of the pending change kinds the server tracks for
// an item. Kinds combine: a renamed and edited file carries
// ChangeRename|ChangeEdit.
type ChangeType uint8

const (
	// ChangeEdit marks content modification of a checked-out item.
	ChangeEdit ChangeType = 1 << iota

	// ChangeAdd marks an item scheduled for addition.
	ChangeAdd

	// ChangeDelete marks an item scheduled for deletion.
	ChangeDelete

	// ChangeRename marks an item with a pending rename or move.
	ChangeRename

	// ChangeUndelete marks a previously deleted item scheduled for restore.
	ChangeUndelete

	// ChangeNone is the empty mask.
	ChangeNone ChangeType = 0
)

// Contains reports whether the mask includes any of the kinds in m.
func (c ChangeType) Contains(m ChangeType) bool {
	return c&m != 0
}

// String returns the set bits as a comma-separated list.
func (c ChangeType) String() string {
	if c == ChangeNone {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		bit  ChangeType
		name string
	}{
		{ChangeEdit, "edit"},
		{ChangeAdd, "add"},
		{ChangeDelete, "delete"},
		{ChangeRename, "rename"},
		{ChangeUndelete, "undelete"},
	} {
		if c.Contains(e.bit) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, ",")
}

// ItemPath is the immutable (local path, server path) pair that identifies
// an item in every other entity.
type ItemPath struct {
	// Local is the absolute local path.
	Local string

	// Server is the $/-rooted server path.
	Server string
}

// PendingChange is the server-side record that an item has an outstanding
// edit, add, delete or rename since its last sync.
type PendingChange struct {
	// Item identifies the changed item.
	Item ItemPath

	// Type tags the item as file or folder.
	Type ItemType

	// Change is the combined change-type mask.
	Change ChangeType

	// Version is the workspace version of the item.
	Version int
}

// ExtendedItem is the per-item server state the classifier works from.
// A zero LatestVersion together with an empty TargetItem means the server
// does not know the item at all.
type ExtendedItem struct {
	// TargetItem is the current server path of the item.
	TargetItem string

	// SourceItem is the pre-rename server path; equals TargetItem unless a
	// rename is pending.
	SourceItem string

	// Local is the local path the workspace maps the item to.
	Local string

	// LocalVersion is the changeset last synced into the workspace.
	// Zero means the item is not present in the workspace.
	LocalVersion int

	// LatestVersion is the newest changeset of the item on the server.
	LatestVersion int

	// DeletionID is non-zero when the item was deleted on the server.
	DeletionID int

	// Change is the pending change mask, or ChangeNone.
	Change ChangeType

	// Type tags the item as file or folder.
	Type ItemType
}
