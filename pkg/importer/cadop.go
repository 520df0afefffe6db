// CLAUDE:SUMMARY Import adapter for the ANS CADOP export (active health plan operators, semicolon-separated, latin1).
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
)

// CadopID is the adapter ID of the ANS operator registry.
const CadopID = "ans-cadop"

func init() {
	Register(&cadopAdapter{})
}

type cadopAdapter struct{}

func (a *cadopAdapter) ID() string { return CadopID }
func (a *cadopAdapter) Description() string {
	return "ANS CADOP: operadoras de planos de saude ativas"
}
func (a *cadopAdapter) DefaultURL() string {
	return "https://dadosabertos.ans.gov.br/FTP/PDA/operadoras_de_plano_de_saude_ativas/Relatorio_cadop.csv"
}
func (a *cadopAdapter) License() string { return "ODbL" }

func (a *cadopAdapter) Import(ctx context.Context, sourceURL string, dest dataset.SourceSpec) (int, error) {
	dest = dest.WithDefaults()
	if err := ensureDir(filepath.Dir(dest.Path)); err != nil {
		return 0, err
	}

	tmp := dest.Path + ".download"
	defer os.Remove(tmp)

	if err := downloadFile(ctx, sourceURL, tmp); err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}

	rows, err := installFile(tmp, dest)
	if err != nil {
		return 0, err
	}

	err = writeProvenance(dest.Path, &Provenance{
		Adapter:   a.ID(),
		SourceURL: sourceURL,
		License:   a.License(),
		Rows:      rows,
		FetchedAt: time.Now().UTC(),
	})
	return rows, err
}
