package store

import "github.com/google/uuid"

// WorkspaceID identifies a workspace for its whole lifetime.
type WorkspaceID uuid.UUID

func NewWorkspaceID() WorkspaceID {
	return WorkspaceID(uuid.New())
}

// ParseWorkspaceID parses the canonical UUID form.
func ParseWorkspaceID(s string) (WorkspaceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return WorkspaceID{}, err
	}
	return WorkspaceID(id), nil
}

func (id WorkspaceID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is unset. Transforms treat a zero id as "the
// active workspace".
func (id WorkspaceID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id WorkspaceID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *WorkspaceID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(data)
}
