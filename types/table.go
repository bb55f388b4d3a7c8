package types

type Table struct {
	Model interface{}
	Name  string
}

// SpaceAddress is one row of the space address dedup table. Rows are written
// once and never updated or deleted.
type SpaceAddress struct {
	Key   string `gorm:"type:text;primaryKey"`
	Value string `gorm:"type:text"`
}

func (SpaceAddress) TableName() string {
	return "space_address"
}

// Tables lists every model the migrate command creates.
var Tables = []Table{
	{Model: &SpaceAddress{}, Name: SpaceAddress{}.TableName()},
}
