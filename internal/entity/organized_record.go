package entity

// OrganizedRecord is one entry of the run manifest.
type OrganizedRecord struct {
	OriginalPath string `json:"original_path"`
	NewPath      string `json:"new_path"`
	NewFilename  string `json:"new_filename"`
	FileType     string `json:"file_type"`
	Grade        string `json:"grade"`
	Subject      string `json:"subject"`
	Type         string `json:"type"`
	Year         string `json:"year"`
	Pages        int    `json:"pages"`
	FileSize     string `json:"file_size"`
	Extension    string `json:"extension"`
}
