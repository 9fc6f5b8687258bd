package boost

import (
	"container/heap"
)

// minSplitGain rejects splits whose loss reduction is numerical noise.
const minSplitGain = 1e-9

type node struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      int
	right     int
}

// Tree is a fitted regression tree. Leaf values already include shrinkage.
type Tree struct {
	nodes []node
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for !t.nodes[i].leaf {
		n := t.nodes[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].value
}

// Leaves reports the number of leaves in the tree.
func (t *Tree) Leaves() int {
	c := 0
	for _, n := range t.nodes {
		if n.leaf {
			c++
		}
	}
	return c
}

type bucket struct {
	g float64
	n int
}

type candidate struct {
	feature int
	bin     int
	gain    float64
}

type growLeaf struct {
	id    int
	rows  []int
	depth int
	hist  [][]bucket
	best  candidate
	ok    bool
}

// leafQueue orders splittable leaves by gain, then by node id.
type leafQueue []*growLeaf

func (q leafQueue) Len() int { return len(q) }
func (q leafQueue) Less(i, j int) bool {
	if q[i].best.gain != q[j].best.gain {
		return q[i].best.gain > q[j].best.gain
	}
	return q[i].id < q[j].id
}
func (q leafQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *leafQueue) Push(x any)   { *q = append(*q, x.(*growLeaf)) }
func (q *leafQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// grower builds one least-squares tree on the current gradients (hessians are 1).
type grower struct {
	binned     [][]uint8
	thresholds [][]float64
	grad       []float64
	p          Params
}

func (g *grower) grow(rows []int) (*Tree, []*growLeaf) {
	t := &Tree{nodes: []node{{}}}
	root := g.newLeaf(0, rows, 0, g.histogram(rows))

	var finished []*growLeaf
	q := &leafQueue{}
	if root.ok {
		heap.Push(q, root)
	} else {
		finished = append(finished, root)
	}

	nLeaves := 1
	for q.Len() > 0 && nLeaves < g.p.MaxLeafNodes {
		l := heap.Pop(q).(*growLeaf)
		f, b := l.best.feature, l.best.bin

		var leftRows, rightRows []int
		col := g.binned[f]
		for _, r := range l.rows {
			if int(col[r]) <= b {
				leftRows = append(leftRows, r)
			} else {
				rightRows = append(rightRows, r)
			}
		}

		var leftHist, rightHist [][]bucket
		if len(leftRows) <= len(rightRows) {
			leftHist = g.histogram(leftRows)
			rightHist = subtract(l.hist, leftHist)
		} else {
			rightHist = g.histogram(rightRows)
			leftHist = subtract(l.hist, rightHist)
		}

		li := len(t.nodes)
		t.nodes = append(t.nodes, node{}, node{})
		t.nodes[l.id] = node{feature: f, threshold: g.thresholds[f][b], left: li, right: li + 1}
		l.hist = nil
		nLeaves++

		for _, child := range []*growLeaf{
			g.newLeaf(li, leftRows, l.depth+1, leftHist),
			g.newLeaf(li+1, rightRows, l.depth+1, rightHist),
		} {
			if child.ok {
				heap.Push(q, child)
			} else {
				finished = append(finished, child)
			}
		}
	}
	for q.Len() > 0 {
		finished = append(finished, heap.Pop(q).(*growLeaf))
	}

	for _, l := range finished {
		sum := 0.0
		for _, r := range l.rows {
			sum += g.grad[r]
		}
		v := -g.p.LearningRate * sum / (float64(len(l.rows)) + g.p.L2Regularization)
		t.nodes[l.id] = node{leaf: true, value: v}
		l.hist = nil
	}
	return t, finished
}

func (g *grower) histogram(rows []int) [][]bucket {
	hist := make([][]bucket, len(g.binned))
	for f, col := range g.binned {
		h := make([]bucket, len(g.thresholds[f])+1)
		for _, r := range rows {
			b := &h[col[r]]
			b.g += g.grad[r]
			b.n++
		}
		hist[f] = h
	}
	return hist
}

func subtract(parent, child [][]bucket) [][]bucket {
	out := make([][]bucket, len(parent))
	for f := range parent {
		h := make([]bucket, len(parent[f]))
		for b := range h {
			h[b] = bucket{g: parent[f][b].g - child[f][b].g, n: parent[f][b].n - child[f][b].n}
		}
		out[f] = h
	}
	return out
}

func (g *grower) newLeaf(id int, rows []int, depth int, hist [][]bucket) *growLeaf {
	l := &growLeaf{id: id, rows: rows, depth: depth, hist: hist}
	if g.p.MaxDepth > 0 && depth >= g.p.MaxDepth {
		return l
	}
	n := len(rows)
	minLeaf := g.p.MinSamplesLeaf
	if n < 2*minLeaf {
		return l
	}

	lambda := g.p.L2Regularization
	total := 0.0
	for _, b := range hist[0] {
		total += b.g
	}
	parentScore := total * total / (float64(n) + lambda)

	for f, h := range hist {
		gl, nl := 0.0, 0
		// the last bin cannot be a left side: nothing would go right
		for b := 0; b < len(h)-1; b++ {
			gl += h[b].g
			nl += h[b].n
			nr := n - nl
			if nl < minLeaf {
				continue
			}
			if nr < minLeaf {
				break
			}
			gr := total - gl
			gain := gl*gl/(float64(nl)+lambda) + gr*gr/(float64(nr)+lambda) - parentScore
			if gain > l.best.gain {
				l.best = candidate{feature: f, bin: b, gain: gain}
			}
		}
	}
	l.ok = l.best.gain > minSplitGain
	return l
}
