package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dnaenc/edesigner/internal/domain/bbt"
	"github.com/dnaenc/edesigner/internal/domain/classifier"
	"github.com/dnaenc/edesigner/internal/domain/param"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/prometheus"
	"github.com/dnaenc/edesigner/pkg/errors"
)

// SourceFile names one building-block source: a two-column (smiles, id)
// tab-separated file, tagged with the source name the classifier stamps
// into every surviving molecule's ID and whether it counts toward the
// internal-only histograms.
type SourceFile struct {
	Path     string
	Source   string
	External bool
}

// ClassifyResult is the outcome of running the classifier over every
// configured source file: the populated catalogue, its display-ready
// descriptor, and the per-BBT compound listings the "per-BBT compound
// listings" final output names.
type ClassifyResult struct {
	Catalogue  *bbt.Catalogue
	Descriptor CatalogueDescriptor
	Compounds  map[int][]classifier.ClassifiedMolecule // keyed by BBT index
	DroppedN   int
	ClassifiedN int
}

// RunClassify builds a BBT catalogue from p, then classifies every source
// file's molecules into it (§4.2), fanning the per-file work out across a
// bounded worker pool. dedup spans every file so cross-file duplicate
// canonical SMILES collapse to their first occurrence regardless of which
// file is processed first; pass classifier.NewDedup() for a run-scoped
// in-memory set, or a Redis-backed Dedup (see NewRedisDedup) to share dedup
// state across classify runs against the same catalogue.
func RunClassify(ctx context.Context, p *param.Params, maxAtoms int, sources []SourceFile, chem classifier.ChemTool, dedup classifier.Dedup, workers int, logger logging.Logger, metrics prometheus.MetricsCollector) (*ClassifyResult, error) {
	catalogue, err := bbt.BuildCatalogue(p, maxAtoms)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeBBTVectorMismatch, "failed to build BBT catalogue")
	}

	cls := classifier.New(p, catalogue, chem, logger)

	var moleculesCounter prometheus.Counter
	if metrics != nil {
		moleculesCounter = metrics.RegisterCounter("classified_molecules_total", "molecules classified into a BBT", "source").WithLabelValues("all")
	}

	if workers < 1 {
		workers = 1
	}

	type fileResult struct {
		classified []classifier.ClassifiedMolecule
		rawN       int
	}
	results := make([]fileResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			raw, err := readMolecules(src.Path)
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam, "failed to read source file "+src.Path)
			}
			results[i] = fileResult{classified: cls.ClassifyBatch(gctx, src.Source, src.External, raw, dedup), rawN: len(raw)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compounds := make(map[int][]classifier.ClassifiedMolecule)
	classifiedN := 0
	droppedN := 0
	for _, fr := range results {
		droppedN += fr.rawN - len(fr.classified)
		for _, m := range fr.classified {
			catalogue.BBTs[m.BBTIndex].Record(m.EffectiveAtoms, m.External, m.SMILES)
			compounds[m.BBTIndex] = append(compounds[m.BBTIndex], m)
			classifiedN++
			if moleculesCounter != nil {
				moleculesCounter.Add(1)
			}
		}
	}

	logger.Info("classification complete",
		logging.Int("sources", len(sources)),
		logging.Int("classified", classifiedN),
		logging.Int("dropped", droppedN),
		logging.Int("bbts_populated", len(compounds)))

	return &ClassifyResult{
		Catalogue:   catalogue,
		Descriptor:  BuildCatalogueDescriptor(catalogue),
		Compounds:   compounds,
		DroppedN:    droppedN,
		ClassifiedN: classifiedN,
	}, nil
}

// readMolecules parses a two-column (smiles, id) tab-separated source file.
// Blank lines and a leading header line (columns named "smiles"/"id") are
// skipped.
func readMolecules(path string) ([]classifier.RawMolecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []classifier.RawMolecule
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(fields[0], "smiles") {
				continue
			}
		}
		out = append(out, classifier.RawMolecule{SMILES: fields[0], ID: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteCompoundListings writes one SMILES listing file per populated BBT
// index under dir, named <index>.smi, each line "<smiles>\t<id>".
func WriteCompoundListings(dir string, compounds map[int][]classifier.ClassifiedMolecule) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CodeStorageError, "failed to create compound listing directory")
	}
	for idx, molecules := range compounds {
		path := filepath.Join(dir, fmt.Sprintf("%d.smi", idx))
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, errors.CodeStorageError, "failed to create compound listing file "+path)
		}
		for _, m := range molecules {
			if _, err := fmt.Fprintf(f, "%s\t%s\n", m.SMILES, m.ID); err != nil {
				f.Close()
				return errors.Wrap(err, errors.CodeStorageError, "failed to write compound listing file "+path)
			}
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, errors.CodeStorageError, "failed to close compound listing file "+path)
		}
	}
	return nil
}

// FormatCatalogueDescriptor renders a descriptor as the tab-separated report
// the classify verb writes to --output.
func FormatCatalogueDescriptor(d CatalogueDescriptor) string {
	var sb strings.Builder
	sb.WriteString("index\ttriple\tmulti\torder\ttotal\tinternal\texternal\tmin_atoms\tmax_atoms\theadpiece\texample\n")
	for _, r := range d.Rows {
		fmt.Fprintf(&sb, "%d\t%v\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%t\t%s\n",
			r.Index, r.Triple, r.Multi, r.Order, r.TotalCount, r.InternalCount, r.ExternalCount,
			r.MinAtoms, r.MaxAtoms, r.IsHeadpiece, r.SMILESExample)
	}
	return sb.String()
}
