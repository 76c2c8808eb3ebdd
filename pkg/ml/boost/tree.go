package boost

// Node is one node of a regression tree stored in a flat slice.
// Leaf nodes carry Value; split nodes send rows with x[Feature] < Threshold
// to Left and everything else (including NaN) to Right.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Leaf      bool
	Value     float64
}

// Tree is a single boosted regression tree.
type Tree struct {
	Nodes []Node
}

func (t Tree) predict(row []float64) float64 {
	i := 0
	for !t.Nodes[i].Leaf {
		n := t.Nodes[i]
		if row[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// minSplitLoss is the smallest loss reduction treated as a real split.
const minSplitLoss = 1e-6

// treeBuilder grows one tree on gradient statistics with exact greedy split
// search over pre-sorted feature columns.
type treeBuilder struct {
	params  Params
	columns [][]float64
	order   [][]int
	grad    []float64
	hess    []float64
	inNode  []bool
	nodes   []Node
	gain    []float64
	splits  []int
}

type splitCandidate struct {
	feature   int
	threshold float64
	gain      float64
}

func (b *treeBuilder) build(rows []int) Tree {
	b.nodes = b.nodes[:0]
	b.grow(rows, 0)
	return Tree{Nodes: append([]Node(nil), b.nodes...)}
}

func (b *treeBuilder) grow(rows []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{})

	var g, h float64
	for _, r := range rows {
		g += b.grad[r]
		h += b.hess[r]
	}

	if depth >= b.params.MaxDepth || len(rows) < 2 {
		b.nodes[idx] = b.leaf(g, h)
		return idx
	}

	best, ok := b.bestSplit(rows, g, h)
	if !ok {
		b.nodes[idx] = b.leaf(g, h)
		return idx
	}

	b.gain[best.feature] += best.gain
	b.splits[best.feature]++

	col := b.columns[best.feature]
	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		if col[r] < best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx] = Node{Feature: best.feature, Threshold: best.threshold, Left: l, Right: r}
	return idx
}

func (b *treeBuilder) leaf(g, h float64) Node {
	return Node{Leaf: true, Value: -g / (h + b.params.Lambda) * b.params.LearningRate}
}

func (b *treeBuilder) bestSplit(rows []int, g, h float64) (splitCandidate, bool) {
	for _, r := range rows {
		b.inNode[r] = true
	}
	defer func() {
		for _, r := range rows {
			b.inNode[r] = false
		}
	}()

	lambda := b.params.Lambda
	parent := g * g / (h + lambda)
	best := splitCandidate{gain: minSplitLoss}
	found := false

	for f, col := range b.columns {
		var gl, hl float64
		prev := -1
		for _, r := range b.order[f] {
			if !b.inNode[r] {
				continue
			}
			if prev >= 0 && col[r] > col[prev] {
				gr, hr := g-gl, h-hl
				if hl >= b.params.MinChildWeight && hr >= b.params.MinChildWeight {
					gain := 0.5*(gl*gl/(hl+lambda)+gr*gr/(hr+lambda)-parent) - b.params.Gamma
					if gain > best.gain {
						threshold := col[prev] + (col[r]-col[prev])/2
						if !(col[prev] < threshold) {
							threshold = col[r]
						}
						best = splitCandidate{feature: f, threshold: threshold, gain: gain}
						found = true
					}
				}
			}
			gl += b.grad[r]
			hl += b.hess[r]
			prev = r
		}
	}
	return best, found
}
