package analysis

import "math"

const (
	eigenTolerance     = 1e-6
	eigenMaxIterations = 200
)

// Degrees returns the distinct-neighbor count per node.
func (g *Graph) Degrees() []int {
	deg := make([]int, len(g.nodes))
	for i, neighbors := range g.adj {
		deg[i] = len(neighbors)
	}
	return deg
}

// Betweenness computes Brandes betweenness centrality, unweighted and
// undirected. Each unordered pair is counted from both endpoints and the raw
// score is divided by (n-1)(n-2)/2. With fewer than three nodes the
// denominator is not positive and every score is 0.
func (g *Graph) Betweenness() []float64 {
	n := len(g.nodes)
	raw := make([]float64, n)

	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		for v := 0; v < n; v++ {
			sigma[v] = 0
			dist[v] = -1
			delta[v] = 0
			preds[v] = preds[v][:0]
		}
		sigma[s] = 1
		dist[s] = 0
		stack = stack[:0]
		queue = append(queue[:0], s)

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != s {
				raw[w] += delta[w]
			}
		}
	}

	denom := float64(n-1) * float64(n-2) / 2
	out := make([]float64, n)
	if denom > 0 {
		for v := range raw {
			out[v] = raw[v] / denom
		}
	}
	return out
}

// HarmonicCloseness computes the harmonic closeness of every node: the sum of
// 1/d over reachable nodes. Unreachable nodes contribute 0, so the measure is
// defined on disconnected graphs and an isolated node scores 0.
func (g *Graph) HarmonicCloseness() []float64 {
	n := len(g.nodes)
	out := make([]float64, n)
	dist := make([]int, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		for v := range dist {
			dist[v] = -1
		}
		dist[s] = 0
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
			}
		}
		var sum float64
		for v, d := range dist {
			if v != s && d > 0 {
				sum += 1 / float64(d)
			}
		}
		out[s] = sum
	}
	return out
}

// Eigenvector computes eigenvector centrality by power iteration: scores
// start at 1, each step sums neighbor scores and L2-normalizes the vector,
// stopping when the max per-node change drops below 1e-6 or after 200
// iterations. On an edgeless graph the vector collapses to all zeros.
func (g *Graph) Eigenvector() []float64 {
	n := len(g.nodes)
	cur := make([]float64, n)
	next := make([]float64, n)
	for v := range cur {
		cur[v] = 1
	}

	change := 1.0
	for iter := 0; change > eigenTolerance && iter < eigenMaxIterations; iter++ {
		var norm float64
		for v := range next {
			var s float64
			for _, w := range g.adj[v] {
				s += cur[w]
			}
			next[v] = s
			norm += s * s
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			norm = 1
		}
		change = 0
		for v := range next {
			next[v] /= norm
			if d := math.Abs(next[v] - cur[v]); d > change {
				change = d
			}
			cur[v] = next[v]
		}
	}
	return cur
}
