package domain

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Challenge is a challenge document. Besides the typed fields, clients may
// store arbitrary attributes (title, description, category, ...); those are
// carried in Fields and flattened back into the JSON representation so the
// wire shape stays a single flat object.
type Challenge struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty"`
	CreatedBy    string                 `bson:"createdBy"`
	Participants int64                  `bson:"participants"`
	Fields       map[string]interface{} `bson:",inline"`
}

func (c Challenge) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Fields)+3)
	for k, v := range c.Fields {
		out[k] = v
	}
	out["_id"] = c.ID
	out["createdBy"] = c.CreatedBy
	out["participants"] = c.Participants
	return json.Marshal(out)
}

func (c *Challenge) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["_id"]; ok {
		if err := json.Unmarshal(v, &c.ID); err != nil {
			return err
		}
		delete(raw, "_id")
	}
	if v, ok := raw["createdBy"]; ok {
		if err := json.Unmarshal(v, &c.CreatedBy); err != nil {
			return err
		}
		delete(raw, "createdBy")
	}
	if v, ok := raw["participants"]; ok {
		if err := json.Unmarshal(v, &c.Participants); err != nil {
			return err
		}
		delete(raw, "participants")
	}
	if len(raw) > 0 {
		c.Fields = make(map[string]interface{}, len(raw))
		for k, v := range raw {
			var val interface{}
			if err := json.Unmarshal(v, &val); err != nil {
				return err
			}
			c.Fields[k] = val
		}
	}
	return nil
}
