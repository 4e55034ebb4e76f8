package models

// Dataset is one unit found in a drop folder: either a single CSV file or a
// subdirectory of CSV files that processing reads as one batch.
type Dataset struct {
	Name   string
	Domain string
	Path   string
	// Files are the CSV files behind Path, sorted by name.
	Files []string
}

// Folder is a drop folder watched for one domain.
type Folder struct {
	Dir    string
	Domain string
}
