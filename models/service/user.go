package service

import (
	"encoding/json"

	"github.com/datacommons-hub/submission-services/constants"
	"github.com/datacommons-hub/submission-services/util"
)

// User is the acting user on submission operations. Role, studies,
// data commons and permissions all come from the identity provider; this
// model only normalizes them.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role"`
	Studies     []Study  `json:"studies"`
	DataCommons []string `json:"data_commons"`
	Permissions []string `json:"permissions"`
}

// Study is one study assignment. Upstream systems send studies either as
// bare ID strings or as objects with an _id field; UnmarshalJSON accepts
// both so the sentinel "All" value cannot hide in one of the two shapes.
type Study struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

func (s *Study) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		s.ID = id
		return nil
	}
	type studyAlias Study
	alias := &studyAlias{}
	if err := json.Unmarshal(data, alias); err != nil {
		return err
	}
	*s = Study(*alias)
	return nil
}

// UserFromJSON converts a JSON representation of a User to a User object.
func UserFromJSON(jsonData []byte) (*User, error) {
	user := &User{}
	err := json.Unmarshal(jsonData, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ToJSON converts a User to its JSON representation.
func (user *User) ToJSON() ([]byte, error) {
	bytes, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// HasAllStudies returns true if the user's study list carries the "All"
// sentinel, in either of its wire shapes.
func (user *User) HasAllStudies() bool {
	for _, study := range user.Studies {
		if study.ID == constants.AllStudies {
			return true
		}
	}
	return false
}

// HasStudy returns true if studyID is among the user's assigned studies.
// The sentinel does not count; callers decide what "All" means.
func (user *User) HasStudy(studyID string) bool {
	for _, study := range user.Studies {
		if study.ID == studyID {
			return true
		}
	}
	return false
}

// HasDataCommons returns true if dataCommons is among the user's
// assigned data commons.
func (user *User) HasDataCommons(dataCommons string) bool {
	return util.StringListContains(user.DataCommons, dataCommons)
}

// HasPermission returns true if the user holds the named permission.
func (user *User) HasPermission(permission string) bool {
	return util.StringListContains(user.Permissions, permission)
}
