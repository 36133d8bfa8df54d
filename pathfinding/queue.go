package pathfinding

// frontier is a min-heap on priority. Equal priorities pop in insertion
// order.
type frontier []item

type item struct {
	cell     int
	priority int
	seq      int
}

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any) {
	*f = append(*f, x.(item))
}
func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	*f = old[:n-1]
	return it
}
