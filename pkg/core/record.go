package core

import (
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Column names of a generated batch, in serialization order.
const (
	ColPersonName      = "person_name"
	ColUserName        = "user_name"
	ColEmail           = "email"
	ColPhone           = "phone"
	ColAddress         = "address"
	ColMACAddress      = "mac_address"
	ColIPAddress       = "ip_address"
	ColIBAN            = "iban"
	ColBirthDate       = "birth_date"
	ColAccessedAt      = "accessed_at"
	ColSessionDuration = "session_duration"
	ColDownloadSpeed   = "download_speed"
	ColUploadSpeed     = "upload_speed"
	ColConsumedTraffic = "consumed_traffic"
	ColPersonalNumber  = "personal_number"
	ColUniqueID        = "unique_id"
)

// Textual layouts for the two temporal columns.
const (
	// DateLayout is the serialization layout for birth dates.
	DateLayout = "2006-01-02"

	// DatetimeLayout is the serialization layout for access timestamps
	// as generated, before normalization appends the zone suffix.
	DatetimeLayout = "2006-01-02T15:04:05"
)

// Record is a single synthetic user-session observation.
type Record struct {
	PersonName      string
	UserName        string
	Email           string
	Phone           string
	Address         string
	MACAddress      string
	IPAddress       string
	IBAN            string
	BirthDate       time.Time
	AccessedAt      time.Time
	SessionDuration int
	DownloadSpeed   int
	UploadSpeed     int
	ConsumedTraffic float64
	PersonalNumber  string
}

// Batch is an ordered collection of generated records.
type Batch []Record

// FieldNames returns the canonical column order of a generated batch,
// before the unique id column is appended.
func FieldNames() []string {
	return []string{
		ColPersonName,
		ColUserName,
		ColEmail,
		ColPhone,
		ColAddress,
		ColMACAddress,
		ColIPAddress,
		ColIBAN,
		ColBirthDate,
		ColAccessedAt,
		ColSessionDuration,
		ColDownloadSpeed,
		ColUploadSpeed,
		ColConsumedTraffic,
		ColPersonalNumber,
	}
}

// DeriveTraffic computes the consumed traffic in megabytes for a session:
// (download + upload) * duration / 8, rounded half up to two decimal places.
func DeriveTraffic(downloadSpeed, uploadSpeed, durationSeconds int) float64 {
	mb := float64((downloadSpeed+uploadSpeed)*durationSeconds) / 8
	return math.Round(mb*100) / 100
}

// BatchSchema returns the Arrow schema used to serialize a batch. Temporal
// columns are serialized as strings in their fixed layouts so the written
// file carries exactly the documented textual form.
func BatchSchema() *arrow.Schema {
	fields := []arrow.Field{
		{Name: ColPersonName, Type: arrow.BinaryTypes.String},
		{Name: ColUserName, Type: arrow.BinaryTypes.String},
		{Name: ColEmail, Type: arrow.BinaryTypes.String},
		{Name: ColPhone, Type: arrow.BinaryTypes.String},
		{Name: ColAddress, Type: arrow.BinaryTypes.String},
		{Name: ColMACAddress, Type: arrow.BinaryTypes.String},
		{Name: ColIPAddress, Type: arrow.BinaryTypes.String},
		{Name: ColIBAN, Type: arrow.BinaryTypes.String},
		{Name: ColBirthDate, Type: arrow.BinaryTypes.String},
		{Name: ColAccessedAt, Type: arrow.BinaryTypes.String},
		{Name: ColSessionDuration, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColDownloadSpeed, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColUploadSpeed, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColConsumedTraffic, Type: arrow.PrimitiveTypes.Float64},
		{Name: ColPersonalNumber, Type: arrow.BinaryTypes.String},
	}
	return arrow.NewSchema(fields, nil)
}

// BatchRecord converts a batch to a single Arrow record using the batch
// schema. The caller must release the returned record.
func BatchRecord(mem memory.Allocator, batch Batch) arrow.Record {
	schema := BatchSchema()
	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()

	for i, field := range schema.Fields() {
		switch field.Name {
		case ColPersonName:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.PersonName)
			}
		case ColUserName:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.UserName)
			}
		case ColEmail:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.Email)
			}
		case ColPhone:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.Phone)
			}
		case ColAddress:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.Address)
			}
		case ColMACAddress:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.MACAddress)
			}
		case ColIPAddress:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.IPAddress)
			}
		case ColIBAN:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.IBAN)
			}
		case ColBirthDate:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.BirthDate.Format(DateLayout))
			}
		case ColAccessedAt:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.AccessedAt.Format(DatetimeLayout))
			}
		case ColSessionDuration:
			b := bldr.Field(i).(*array.Int64Builder)
			for _, r := range batch {
				b.Append(int64(r.SessionDuration))
			}
		case ColDownloadSpeed:
			b := bldr.Field(i).(*array.Int64Builder)
			for _, r := range batch {
				b.Append(int64(r.DownloadSpeed))
			}
		case ColUploadSpeed:
			b := bldr.Field(i).(*array.Int64Builder)
			for _, r := range batch {
				b.Append(int64(r.UploadSpeed))
			}
		case ColConsumedTraffic:
			b := bldr.Field(i).(*array.Float64Builder)
			for _, r := range batch {
				b.Append(r.ConsumedTraffic)
			}
		case ColPersonalNumber:
			b := bldr.Field(i).(*array.StringBuilder)
			for _, r := range batch {
				b.Append(r.PersonalNumber)
			}
		}
	}

	return bldr.NewRecord()
}
