package models

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm/schema"
)

// TimestampLayout is the on-disk format of every timestamp column: ISO 8601
// wall clock with an explicit UTC offset.
const TimestampLayout = time.RFC3339

func init() {
	schema.RegisterSerializer("civiltime", CivilTimeSerializer{})
}

// CivilTimeSerializer stores time.Time and *time.Time fields as RFC 3339
// text, keeping the offset the value was recorded with. Nil pointers map to
// NULL.
type CivilTimeSerializer struct{}

// Scan implements schema.Serializer
func (CivilTimeSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	fieldValue := reflect.New(field.FieldType)

	if dbValue != nil {
		var t time.Time
		switch v := dbValue.(type) {
		case string:
			parsed, err := time.Parse(TimestampLayout, v)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", field.Name, err)
			}
			t = parsed
		case []byte:
			parsed, err := time.Parse(TimestampLayout, string(v))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", field.Name, err)
			}
			t = parsed
		case time.Time:
			t = v
		default:
			return fmt.Errorf("unsupported value %#v for %s", dbValue, field.Name)
		}

		if field.FieldType.Kind() == reflect.Ptr {
			fieldValue.Elem().Set(reflect.ValueOf(&t))
		} else {
			fieldValue.Elem().Set(reflect.ValueOf(t))
		}
	}

	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}

// Value implements schema.SerializerValuerInterface
func (CivilTimeSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	switch v := fieldValue.(type) {
	case time.Time:
		return v.Format(TimestampLayout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(TimestampLayout), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported type %T for %s", fieldValue, field.Name)
	}
}
