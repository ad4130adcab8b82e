package handler

import "time"

// buildPatch picks the allowed fields out of a parsed PATCH body, ignoring
// everything else, and stamps updated_at when anything changed. Returns nil
// when the body touches none of the allowed fields.
func buildPatch(body map[string]interface{}, allowed []string) map[string]interface{} {
	patch := map[string]interface{}{}
	for _, field := range allowed {
		if value, present := body[field]; present {
			patch[field] = value
		}
	}
	if len(patch) == 0 {
		return nil
	}
	patch["updated_at"] = time.Now().UTC()
	return patch
}

// patchHasEmptyString reports whether the patch sets field to an empty string,
// used to reject blanking out required fields like name
func patchHasEmptyString(patch map[string]interface{}, field string) bool {
	value, present := patch[field]
	if !present {
		return false
	}
	s, isString := value.(string)
	return isString && s == ""
}
