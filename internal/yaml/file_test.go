package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyDoc struct {
	SchemaHeader   `yaml:",inline"`
	LastNotifiedAt string `yaml:"last_notified_at"`
}

func TestWriteState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "notify.yaml")

	in := notifyDoc{SchemaHeader: NewHeader(FileTypeNotify), LastNotifiedAt: "2026-10-19T08:00:00Z"}
	require.NoError(t, WriteState(path, FileTypeNotify, in))

	var out notifyDoc
	found, err := ReadState(path, FileTypeNotify, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestWriteState_RejectsHeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "baselines.yaml")

	err := WriteState(path, FileTypeBaselines, notifyDoc{SchemaHeader: NewHeader(FileTypeNotify)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_type")

	err = WriteState(path, FileTypeBaselines, map[string]int{"audio": 1})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be left behind by a refused write")
}

func TestWriteState_KeepsPreviousAsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.yaml")

	first := notifyDoc{SchemaHeader: NewHeader(FileTypeNotify), LastNotifiedAt: "first"}
	second := notifyDoc{SchemaHeader: NewHeader(FileTypeNotify), LastNotifiedAt: "second"}
	require.NoError(t, WriteState(path, FileTypeNotify, first))
	require.NoError(t, WriteState(path, FileTypeNotify, second))

	var bak, cur notifyDoc
	_, err := ReadState(path+".bak", FileTypeNotify, &bak)
	require.NoError(t, err)
	_, err = ReadState(path, FileTypeNotify, &cur)
	require.NoError(t, err)
	assert.Equal(t, "first", bak.LastNotifiedAt)
	assert.Equal(t, "second", cur.LastNotifiedAt)
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcuwatch.yaml")

	require.NoError(t, WriteDocument(path, []byte("# comment\nmcu:\n  url: http://mcu\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# comment")

	require.Error(t, WriteDocument(path, []byte("mcu: [\n")))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "url: http://mcu", "refused write must leave the old file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".mcuwatch.yaml.", "temp file left behind")
	}
}

func TestReadState(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	tests := []struct {
		name      string
		path      string
		wantFound bool
		wantErr   bool
	}{
		{"missing", filepath.Join(dir, "absent.yaml"), false, false},
		{"valid", write("ok.yaml", "schema_version: 1\nfile_type: state_notify\n"), true, false},
		{"unparsable", write("broken.yaml", "last_notified_at: [\n"), true, true},
		{"no header", write("bare.yaml", "last_notified_at: x\n"), true, true},
		{"wrong type", write("other.yaml", "schema_version: 1\nfile_type: state_baselines\n"), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc notifyDoc
			found, err := ReadState(tt.path, FileTypeNotify, &doc)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
