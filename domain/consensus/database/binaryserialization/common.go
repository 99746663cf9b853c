package binaryserialization

import "encoding/binary"

var byteOrder = binary.BigEndian
