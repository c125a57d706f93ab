package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChangeRequest is a proposed mutation to exactly one field of one Lead,
// awaiting an administrator's decision. There is no status field: the
// existence of the document means the proposal is pending, and both approval
// and rejection end it by deletion.
type ChangeRequest struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LeadID       primitive.ObjectID `bson:"lead_id" json:"lead_id"`
	FieldChanged string             `bson:"field_changed" json:"field_changed"`
	OldValue     string             `bson:"old_value" json:"old_value"`
	NewValue     string             `bson:"new_value" json:"new_value"`
	ChangedBy    string             `bson:"changed_by" json:"changed_by"`
	DateModified time.Time          `bson:"date_modified" json:"date_modified"`
}
