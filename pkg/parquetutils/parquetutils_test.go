package parquetutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Account string `parquet:"name=account, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Amount  string `parquet:"name=amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	Tier    int32  `parquet:"name=tier, type=INT32"`
}

func TestWriteAllReadAll(t *testing.T) {
	records := []record{
		{Account: "0x00000000000000000000000000000000000000a1", Amount: "100000000000000000000", Tier: 1},
		{Account: "0x00000000000000000000000000000000000000b2", Amount: "50000000000000000000", Tier: 0},
	}

	data, err := WriteAll(records)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := ReadAll[record](data)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}
