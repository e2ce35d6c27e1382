package types

type TypeID int

const (
	Invalid TypeID = iota
	Boolean
	Tinyint
	Smallint
	Integer
	BigInt
	Decimal
	Float
	Varchar
	Timestamp
)

func (t TypeID) Size() uint32 {
	switch t {
	case Integer, Float:
		return 1 + 4 // null flag + 4-byte payload, as Value.Serialize writes it
	case Boolean:
		return 1 + 1 // null flag + 1-byte payload
	}
	return 0
}
