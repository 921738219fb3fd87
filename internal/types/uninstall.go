package types

// UninstallManifest is the ordered list of reversal instructions paired with
// an install manifest.
type UninstallManifest struct {
	Source       string
	Instructions []UninstallInstruction
}

// UninstallInstruction carries exactly one of its kinds. File paths are
// relative to the project root.
type UninstallInstruction struct {
	RemoveString  *RemoveString
	RemoveJSON    *RemoveJSON
	RestoreBackup *RestoreBackup
}

func (i UninstallInstruction) Kind() string {
	switch {
	case i.RemoveString != nil:
		return "remove_string"
	case i.RemoveJSON != nil:
		return "remove_json"
	case i.RestoreBackup != nil:
		return "restore_backup"
	default:
		return ""
	}
}

// File returns the project file the instruction reverts.
func (i UninstallInstruction) File() string {
	switch {
	case i.RemoveString != nil:
		return i.RemoveString.File
	case i.RemoveJSON != nil:
		return i.RemoveJSON.File
	case i.RestoreBackup != nil:
		return i.RestoreBackup.Original
	default:
		return ""
	}
}

type RemoveString struct {
	File string
	Text string
}

type RemoveJSON struct {
	File  string
	Items []JSONItem
}

// JSONItem addresses a key inside a JSON object. With no Values and no
// Children the key itself is removed; Values are removed from the array held
// by the key; Children recurse into the object held by the key.
type JSONItem struct {
	Key      string
	Values   []any
	Children []JSONItem
}

type RestoreBackup struct {
	Backup   string
	Original string
}
