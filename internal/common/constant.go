package common

// Upload folders used as the first segment of object-storage keys.
const (
	FolderUsers    = "users"
	FolderProjects = "projects"
	FolderEvents   = "events"
	FolderStaff    = "staff"
)

const (
	// MaxUploadSize is the per-file upload limit.
	MaxUploadSize = 10 << 20
	// MaxProjectMedia is the number of media files accepted per project.
	MaxProjectMedia = 5
)
