package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// EntityMUS is the MUS serializer for Entity. Optional attributes are
// encoded as a presence flag followed by the value.
var EntityMUS = entityMUS{}

var (
	optFloatMUS = optFloat64MUS{}
	optIntMUS   = optIntegerMUS{}
)

type entityMUS struct{}

func (s entityMUS) Marshal(v Entity, bs []byte) (n int) {
	n = varint.Int64.Marshal(int64(v.ID), bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.DescriptiveName, bs[n:])
	n += ord.String.Marshal(v.Latex, bs[n:])
	for _, f := range v.floats() {
		n += optFloatMUS.Marshal(*f, bs[n:])
	}
	for _, i := range v.ints() {
		n += optIntMUS.Marshal(*i, bs[n:])
	}
	n += varint.Int64.Marshal(int64(v.Conjugate), bs[n:])
	n += ord.String.Marshal(v.ConjugateName, bs[n:])
	n += ord.String.Marshal(v.Status, bs[n:])
	return n + ord.String.Marshal(v.Quarks, bs[n:])
}

func (s entityMUS) Unmarshal(bs []byte) (v Entity, n int, err error) {
	var (
		id  int64
		n1  int
		str *string
	)
	id, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ID = ID(id)
	for _, str = range []*string{&v.Name, &v.DescriptiveName, &v.Latex} {
		*str, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for _, f := range v.floats() {
		*f, n1, err = optFloatMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for _, i := range v.ints() {
		*i, n1, err = optIntMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	id, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Conjugate = ID(id)
	for _, str = range []*string{&v.ConjugateName, &v.Status, &v.Quarks} {
		*str, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s entityMUS) Size(v Entity) (size int) {
	size = varint.Int64.Size(int64(v.ID))
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.DescriptiveName)
	size += ord.String.Size(v.Latex)
	for _, f := range v.floats() {
		size += optFloatMUS.Size(*f)
	}
	for _, i := range v.ints() {
		size += optIntMUS.Size(*i)
	}
	size += varint.Int64.Size(int64(v.Conjugate))
	size += ord.String.Size(v.ConjugateName)
	size += ord.String.Size(v.Status)
	return size + ord.String.Size(v.Quarks)
}

func (s entityMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// floats lists the optional float fields in wire order.
func (e *Entity) floats() []**float64 {
	return []**float64{
		&e.Mass, &e.MassUpper, &e.MassLower,
		&e.Width, &e.WidthUpper, &e.WidthLower,
		&e.Charge, &e.Spin, &e.Lifetime, &e.CTau,
	}
}

// ints lists the optional integer fields in wire order.
func (e *Entity) ints() []**int {
	return []**int{&e.ThreeCharge, &e.Parity, &e.CParity, &e.GParity}
}

type optFloat64MUS struct{}

func (s optFloat64MUS) Marshal(v *float64, bs []byte) (n int) {
	if v == nil {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	return n + raw.Float64.Marshal(*v, bs[n:])
}

func (s optFloat64MUS) Unmarshal(bs []byte) (v *float64, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	f, n1, err := raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return &f, n, nil
}

func (s optFloat64MUS) Size(v *float64) int {
	if v == nil {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + raw.Float64.Size(*v)
}

type optIntegerMUS struct{}

func (s optIntegerMUS) Marshal(v *int, bs []byte) (n int) {
	if v == nil {
		return ord.Bool.Marshal(false, bs)
	}
	n = ord.Bool.Marshal(true, bs)
	return n + varint.Int64.Marshal(int64(*v), bs[n:])
}

func (s optIntegerMUS) Unmarshal(bs []byte) (v *int, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	i, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	x := int(i)
	return &x, n, nil
}

func (s optIntegerMUS) Size(v *int) int {
	if v == nil {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Int64.Size(int64(*v))
}
