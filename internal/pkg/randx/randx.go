/*
Package randx provides functions for generating unique identifiers.

It is primarily used to generate collision-free S3 object keys for user uploads.
*/
package randx

import (
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectKeyPrefix is the bucket prefix under which all user uploads are stored.
const ObjectKeyPrefix = "uploads"

// ObjectKey builds the S3 object key for a user upload.
// The key has the form "uploads/{user_id}/{uuid}-{filename}"; the random UUID
// component makes the key unique even when the same file name is uploaded twice.
func ObjectKey(userID, filename string) string {
	// path.Base strips any directory components a client may have smuggled into the name.
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))

	return fmt.Sprintf("%s/%s/%s-%s", ObjectKeyPrefix, userID, uuid.New().String(), base)
}
