/*
Package contracts provides access to compiled NFMe contracts.

Contracts are expected to be compiled into `<dir>/<name>/contract.nef` and
`<dir>/<name>/manifest.json` files, where name is one of the contract
directories of this package, e.g.

	neo-go contract compile -i contracts/identity -c contracts/identity/config.yml \
		-o build/identity/contract.nef -m build/identity/manifest.json
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	identityDir = "identity"
	issuerDir   = "issuer"
	factoryDir  = "factory"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is a complete set of NFMe contracts.
type Set struct {
	Identity Contract
	Issuer   Contract
	Factory  Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// ReadDir reads compiled contracts from the build directory.
func ReadDir(dir string) (Set, error) {
	return Read(os.DirFS(dir))
}

// Read reads compiled contracts from the given file system.
func Read(fsys fs.FS) (Set, error) {
	var (
		res Set
		err error
	)

	for _, c := range []struct {
		dir string
		dst *Contract
	}{
		{identityDir, &res.Identity},
		{issuerDir, &res.Issuer},
		{factoryDir, &res.Factory},
	} {
		*c.dst, err = readContractFromDir(fsys, c.dir)
		if err != nil {
			return Set{}, fmt.Errorf("read contract %s: %w", c.dir, err)
		}
	}

	return res, nil
}

// DeployArgs returns binary NEF and JSON manifest of the contract as they
// are passed to the deploy method of management contract.
func (c Contract) DeployArgs() ([]byte, []byte, error) {
	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errInvalidNEF, err)
	}

	jManifest, err := json.Marshal(c.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return bNEF, jManifest, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
