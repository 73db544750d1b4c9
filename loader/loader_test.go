package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/panyam/hclexpr/parser"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func TestLoadFilesFromDisk(t *testing.T) {
	dir := fs.NewDir(t, "loader",
		fs.WithFile("good.hcl", "a = 1\nb = [a, 2]\n"),
		fs.WithFile("bad.hcl", "a = [1\nb = 2\nc = {x}\n"),
		fs.WithFile("dup.hcl", "a = 1\na = 2\n"),
		fs.WithFile("lex.hcl", "a = #\n"),
	)
	l := New(NewLocalFS(dir.Path()), WithConcurrency(2))

	result, err := l.LoadFiles(context.Background(), "good.hcl", "bad.hcl", "dup.hcl", "lex.hcl", "missing.hcl", "good.hcl")
	assert.NilError(t, err)
	assert.Check(t, is.Len(result.Files, 5))
	assert.Check(t, result.HasErrors())

	good := result.Get("good.hcl")
	assert.Check(t, !good.HasErrors())
	assert.Check(t, is.Len(good.File.Attributes, 2))
	assert.Equal(t, good.File.FullPath, "good.hcl")

	bad := result.Get("bad.hcl")
	assert.Check(t, is.Len(bad.Errors, 2))
	assert.Check(t, is.Len(bad.File.Attributes, 1))
	var perr *parser.ParseError
	assert.Assert(t, errors.As(bad.Errors[0], &perr))
	assert.Equal(t, perr.Kind, parser.UnterminatedConstruct)

	dup := result.Get("dup.hcl")
	assert.Check(t, is.Len(dup.Errors, 1))
	assert.Check(t, is.ErrorContains(dup.Errors[0], "already defined"))

	lex := result.Get("lex.hcl")
	assert.Check(t, lex.File == nil)
	var lexErr *parser.LexError
	assert.Check(t, errors.As(lex.Errors[0], &lexErr))

	missing := result.Get("missing.hcl")
	assert.Check(t, is.Len(missing.Errors, 1))
	assert.Check(t, errors.Is(missing.Errors[0], os.ErrNotExist))

	assert.Equal(t, result.ErrorCount(), 5)
}

func TestLoadPaths(t *testing.T) {
	dir := fs.NewDir(t, "loader",
		fs.WithFile("one.hcl", "a = 1\n"),
		fs.WithFile("two.hcl", "b = 2\n"),
		fs.WithFile("notes.txt", "not = [parsed\n"),
		fs.WithDir("nested", fs.WithFile("three.hcl", "c = 3\n")),
		fs.WithDir("empty"),
	)
	l := New(NewLocalFS(dir.Path()))

	result, err := l.LoadPaths(context.Background(), ".hcl", ".")
	assert.NilError(t, err)
	assert.Check(t, is.Len(result.Files, 2))
	assert.Equal(t, result.Files[0].Path, "one.hcl")
	assert.Equal(t, result.Files[1].Path, "two.hcl")
	assert.Check(t, !result.HasErrors())

	// Files named explicitly are loaded whatever their extension
	result, err = l.LoadPaths(context.Background(), ".hcl", "nested", "notes.txt", "absent.hcl")
	assert.NilError(t, err)
	assert.Check(t, is.Len(result.Files, 3))
	assert.Equal(t, result.Files[0].Path, filepath.Join("nested", "three.hcl"))
	assert.Check(t, result.Get("notes.txt").HasErrors())
	assert.Check(t, errors.Is(result.Get("absent.hcl").Errors[0], os.ErrNotExist))

	_, err = l.LoadPaths(context.Background(), ".hcl", "empty")
	assert.ErrorContains(t, err, "no .hcl files found")

	mem := NewMemoryFS()
	assert.NilError(t, mem.WriteFile("cfg/a.hcl", []byte("a = 1\n")))
	assert.NilError(t, mem.WriteFile("cfg/b.txt", []byte("b")))
	assert.NilError(t, mem.WriteFile("cfg/sub/c.hcl", []byte("c = 1\n")))
	result, err = New(mem).LoadPaths(context.Background(), ".hcl", "cfg")
	assert.NilError(t, err)
	assert.Check(t, is.Len(result.Files, 1))
	assert.Equal(t, result.Files[0].Path, "cfg/a.hcl")
}

func TestLoadManyFilesConcurrently(t *testing.T) {
	mem := NewMemoryFS()
	var paths []string
	for i := range 50 {
		path := fmt.Sprintf("dir/f%02d.hcl", i)
		src := fmt.Sprintf("n = %d\nl = [for x in xs : x.v%d]\n", i, i)
		if i%10 == 0 {
			src += "broken = (\n"
		}
		assert.NilError(t, mem.WriteFile(path, []byte(src)))
		paths = append(paths, path)
	}

	result, err := New(mem, WithConcurrency(8)).LoadFiles(context.Background(), paths...)
	assert.NilError(t, err)
	assert.Check(t, is.Len(result.Files, 50))
	for i, lf := range result.Files {
		assert.Equal(t, lf.Path, paths[i])
		assert.Check(t, is.Len(lf.File.Attributes, 2))
		assert.Equal(t, lf.HasErrors(), i%10 == 0, lf.Path)
	}
	assert.Equal(t, result.ErrorCount(), 5)
}

func TestLoadFilesCancelled(t *testing.T) {
	mem := NewMemoryFS()
	assert.NilError(t, mem.WriteFile("a.hcl", []byte("a = 1\n")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(mem).LoadFiles(ctx, "a.hcl")
	assert.Check(t, errors.Is(err, context.Canceled))
}

func TestLoaderOptions(t *testing.T) {
	mem := NewMemoryFS()
	assert.NilError(t, mem.WriteFile("many.hcl", []byte("1\n2\n3\n4\n5\n")))
	assert.NilError(t, mem.WriteFile("big.hcl", []byte("a = [1, 2, 3]\n")))

	result, err := New(mem,
		WithMaxErrors(2),
		WithParserOpts(parser.WithMaxInputBytes(10)),
	).LoadFiles(context.Background(), "many.hcl", "big.hcl")
	assert.NilError(t, err)

	many := result.Get("many.hcl")
	assert.Check(t, is.Len(many.Errors, 2))
	assert.Equal(t, many.Dropped, 3)
	var buf bytes.Buffer
	many.PrintErrors(&buf)
	assert.Check(t, is.Contains(buf.String(), "... and 3 more"))

	big := result.Get("big.hcl")
	assert.Check(t, errors.Is(big.Errors[0], parser.ErrInputTooLarge))
}

func TestFileSystems(t *testing.T) {
	dir := fs.NewDir(t, "fs")
	local := NewLocalFS(dir.Path())
	assert.NilError(t, local.WriteFile("sub/a.hcl", []byte("a = 1\n")))
	assert.Check(t, local.Exists("sub/a.hcl"))
	assert.Check(t, local.Exists(filepath.Join(dir.Path(), "sub", "a.hcl")))
	data, err := local.ReadFile("sub/a.hcl")
	assert.NilError(t, err)
	assert.Equal(t, string(data), "a = 1\n")

	mem := NewMemoryFS()
	assert.NilError(t, mem.WriteFile("x/a.hcl", []byte("a")))
	assert.NilError(t, mem.WriteFile("x/b.hcl", []byte("b")))
	assert.NilError(t, mem.WriteFile("x/y/c.hcl", []byte("c")))
	assert.NilError(t, mem.WriteFile("top.hcl", []byte("t")))
	files, err := mem.ListFiles("x")
	assert.NilError(t, err)
	assert.DeepEqual(t, files, []string{"x/a.hcl", "x/b.hcl"})
	files, err = mem.ListFiles(".")
	assert.NilError(t, err)
	assert.DeepEqual(t, files, []string{"top.hcl"})
	assert.Check(t, !mem.Exists("x/none.hcl"))
	assert.Check(t, mem.IsDir("x"))
	assert.Check(t, mem.IsDir("x/y"))
	assert.Check(t, !mem.IsDir("x/a.hcl"))
	assert.Check(t, !mem.IsDir("z"))
	assert.Check(t, local.IsDir("sub"))
	assert.Check(t, !local.IsDir("sub/a.hcl"))
}
