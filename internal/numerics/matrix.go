package numerics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// columnsToMatrix assembles per-asset observation columns into an
// observations×assets dense matrix, validating equal lengths.
func columnsToMatrix(columns [][]float64) (*mat.Dense, error) {
	d := len(columns)
	if d == 0 {
		return nil, fmt.Errorf("no columns supplied")
	}
	n := len(columns[0])
	if n == 0 {
		return nil, fmt.Errorf("empty columns supplied")
	}
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("column %d has %d observations, want %d", i, len(col), n)
		}
	}
	x := mat.NewDense(n, d, nil)
	for j, col := range columns {
		for i, v := range col {
			x.Set(i, j, v)
		}
	}
	return x, nil
}

// symToSlices converts a symmetric gonum matrix to a plain [][]float64.
func symToSlices(s *mat.SymDense) [][]float64 {
	n := s.SymmetricDim()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			out[i][j] = s.At(i, j)
		}
	}
	return out
}

// slicesToSym converts a square [][]float64 into a gonum symmetric matrix,
// validating symmetry within a small tolerance.
func slicesToSym(m [][]float64) (*mat.SymDense, error) {
	n := len(m)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	const symTol = 1e-12
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if len(m[i]) != n {
			return nil, fmt.Errorf("row %d has length %d, want %d", i, len(m[i]), n)
		}
		for j := i; j < n; j++ {
			diff := m[i][j] - m[j][i]
			if diff > symTol || diff < -symTol {
				return nil, fmt.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			s.SetSym(i, j, m[i][j])
		}
	}
	return s, nil
}

// CovarianceMatrix estimates the sample covariance matrix of the given
// per-asset return columns (each column one asset, equal lengths).
func CovarianceMatrix(columns [][]float64) ([][]float64, error) {
	x, err := columnsToMatrix(columns)
	if err != nil {
		return nil, err
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, x, nil)
	return symToSlices(&cov), nil
}

// CorrelationMatrix estimates the sample correlation matrix of the given
// per-asset return columns.
func CorrelationMatrix(columns [][]float64) ([][]float64, error) {
	x, err := columnsToMatrix(columns)
	if err != nil {
		return nil, err
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, x, nil)
	return symToSlices(&corr), nil
}

// QuadraticForm computes wᵀ·M·w.
func QuadraticForm(w []float64, m [][]float64) float64 {
	var total float64
	for i := range w {
		for j := range w {
			total += w[i] * m[i][j] * w[j]
		}
	}
	return total
}

// MatVec computes M·v.
func MatVec(m [][]float64, v []float64) []float64 {
	out := make([]float64, len(m))
	for i := range m {
		var s float64
		for j := range v {
			s += m[i][j] * v[j]
		}
		out[i] = s
	}
	return out
}

// EigenDecomposition holds the spectral decomposition of a symmetric matrix
// with eigenvalues sorted descending. Vectors[k] is the unit eigenvector for
// Values[k].
type EigenDecomposition struct {
	Values  []float64
	Vectors [][]float64
}

// EigenDecompose computes the spectral decomposition of a symmetric matrix,
// returning components in descending eigenvalue order. Fails with
// ErrEigenFailed when the factorization does not converge.
func EigenDecompose(symmetric [][]float64) (EigenDecomposition, error) {
	s, err := slicesToSym(symmetric)
	if err != nil {
		return EigenDecomposition{}, err
	}
	var es mat.EigenSym
	if ok := es.Factorize(s, true); !ok {
		return EigenDecomposition{}, ErrEigenFailed
	}

	n := s.SymmetricDim()
	ascending := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// gonum returns eigenvalues ascending; flip to descending.
	dec := EigenDecomposition{
		Values:  make([]float64, n),
		Vectors: make([][]float64, n),
	}
	for k := 0; k < n; k++ {
		src := n - 1 - k
		dec.Values[k] = ascending[src]
		vec := make([]float64, n)
		for i := 0; i < n; i++ {
			vec[i] = vecs.At(i, src)
		}
		dec.Vectors[k] = vec
	}
	return dec, nil
}

// CholeskyLower computes the lower-triangular Cholesky factor L of a
// symmetric positive-definite matrix, L·Lᵀ = M. Fails with
// ErrNotPositiveDefinite otherwise.
func CholeskyLower(symmetric [][]float64) ([][]float64, error) {
	s, err := slicesToSym(symmetric)
	if err != nil {
		return nil, err
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(s); !ok {
		return nil, ErrNotPositiveDefinite
	}
	var l mat.TriDense
	ch.LTo(&l)

	n := s.SymmetricDim()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, n)
		for j := 0; j <= i; j++ {
			out[i][j] = l.At(i, j)
		}
	}
	return out, nil
}
