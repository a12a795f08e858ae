package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func validFS(t testing.TB) fstest.MapFS {
	_fs := fstest.MapFS{}
	for _, dir := range []string{identityDir, issuerDir, factoryDir} {
		_, validNEF := anyValidNEF(t)
		_, validManifest := anyValidManifest(t, dir)
		_fs[dir+"/"+nefName] = &fstest.MapFile{Data: validNEF}
		_fs[dir+"/"+manifestName] = &fstest.MapFile{Data: validManifest}
	}
	return _fs
}

func TestRead(t *testing.T) {
	s, err := Read(validFS(t))
	require.NoError(t, err)
	require.Equal(t, identityDir, s.Identity.Manifest.Name)
	require.Equal(t, issuerDir, s.Issuer.Manifest.Name)
	require.Equal(t, factoryDir, s.Factory.Manifest.Name)

	bNEF, jManifest, err := s.Factory.DeployArgs()
	require.NoError(t, err)

	n, err := nef.FileFromBytes(bNEF)
	require.NoError(t, err)
	require.Equal(t, s.Factory.NEF.Checksum, n.Checksum)
	require.Equal(t, s.Factory.NEF.Script, n.Script)

	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(jManifest, &m))
	require.Equal(t, factoryDir, m.Name)
}

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[identityDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs)
	require.Error(t, err)

	// Missing other contracts.
	_fs = validFS(t)
	delete(_fs, factoryDir+"/"+manifestName)
	_, err = Read(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = validFS(t)
		nefPath      = issuerDir + "/" + nefName
		manifestPath = issuerDir + "/" + manifestName
	)

	_, validNEF := anyValidNEF(t)
	_, validManifest := anyValidManifest(t, issuerDir)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err := Read(_fs)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs)
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
