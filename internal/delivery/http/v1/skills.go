package v1

import (
	"encoding/json"
	"errors"

	"go-jobboard-backend/internal/domain"
)

// SkillList accepts either a JSON array of strings or a comma-separated
// string, and normalizes both to trimmed, non-empty entries.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = domain.NormalizeSkills(list)
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return errors.New("skills must be a list of strings or a comma-separated string")
	}
	*s = domain.ParseSkills(csv)
	return nil
}
