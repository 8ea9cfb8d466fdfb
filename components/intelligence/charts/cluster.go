package charts

// TopicCluster is a node of the topic map placed at precomputed percentages.
type TopicCluster struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	X           float64  `json:"x" yaml:"x"`
	Y           float64  `json:"y" yaml:"y"`
	Size        float64  `json:"size" yaml:"size"`
	Connections []string `json:"connections" yaml:"connections"`
}

// ClusterEdge is a straight line between two nodes, in percent coordinates.
type ClusterEdge struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// ClusterMap holds nodes and edges; there is no layout pass.
type ClusterMap struct {
	Nodes []TopicCluster `json:"nodes"`
	Edges []ClusterEdge  `json:"edges"`
	Delay float64        `json:"delay"`
}

// NewClusterMap emits one edge per listed (cluster, connection) pair whose
// target exists. A link listed on both ends yields two edges.
func NewClusterMap(clusters []TopicCluster, delay float64) ClusterMap {
	index := make(map[string]TopicCluster, len(clusters))
	for _, c := range clusters {
		index[c.ID] = c
	}
	m := ClusterMap{Nodes: append([]TopicCluster(nil), clusters...), Delay: delay}
	for _, c := range clusters {
		for _, id := range c.Connections {
			target, ok := index[id]
			if !ok {
				continue
			}
			m.Edges = append(m.Edges, ClusterEdge{
				From: c.ID, To: target.ID,
				X1: c.X, Y1: c.Y, X2: target.X, Y2: target.Y,
			})
		}
	}
	return m
}

// UniqueEdges collapses mutual links into a single undirected edge, keeping the
// first occurrence.
func (m ClusterMap) UniqueEdges() []ClusterEdge {
	seen := make(map[[2]string]struct{}, len(m.Edges))
	out := make([]ClusterEdge, 0, len(m.Edges))
	for _, e := range m.Edges {
		key := [2]string{e.From, e.To}
		if e.To < e.From {
			key = [2]string{e.To, e.From}
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
