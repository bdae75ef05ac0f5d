package catalog

import "net/url"

const recordsBasePath = "/dashboard/video-movies"

// ViewPath returns the "view" link target for a record identifier.
func ViewPath(id string) string {
	return recordsBasePath + "/" + url.PathEscape(id)
}

// EditPath returns the "edit" link target for a record identifier.
func EditPath(id string) string {
	return ViewPath(id) + "/edit"
}
