package render

import (
	"fmt"
	"sort"

	"github.com/xh3b4sd/loadcast/feature"
)

const (
	// Up is the color of contributions pushing the forecast higher.
	Up = "#FF0051"
	// Down is the color of contributions pushing the forecast lower.
	Down = "#008BFB"
)

const (
	chartWid = 1000
	chartHei = 160
	chartPad = 40
	tickNum  = 5
)

// Chart is the pixel layout of a force chart. Bas and Out are the base value
// and the forecast, BasX and OutX their positions on the axis.
type Chart struct {
	Wid  int
	Hei  int
	Bas  float64
	BasX float64
	Out  float64
	OutX float64
	Seg  []Segment
	Tic  []Tick
}

// Segment is one feature's bar on the force axis. X and W are pixel
// coordinates.
type Segment struct {
	Nam string
	Val int
	Eff float64
	Up  bool
	Col string
	X   float64
	W   float64
}

// Mid is the horizontal center of the segment, used to anchor its label.
func (s Segment) Mid() float64 {
	return s.X + s.W/2
}

// Tick is a labelled mark on the value axis.
type Tick struct {
	X   float64
	Lab string
}

// Force lays out the attribution the way an additive force plot does. All
// upward contributions are stacked so that they end at the forecast, the
// largest one adjacent to it. All downward contributions start at the
// forecast and stack away from it, again the largest one first. The base
// value always lies between both stacks. Features without any effect are left
// out.
func Force(att feature.Attribution) Chart {
	out := att.Output()

	var ups []feature.Contribution
	var dns []feature.Contribution
	var pos float64
	var neg float64
	for _, c := range att.Con {
		if c.Eff > 0 {
			ups = append(ups, c)
			pos += c.Eff
		} else if c.Eff < 0 {
			dns = append(dns, c)
			neg -= c.Eff
		}
	}

	sort.SliceStable(ups, func(i, j int) bool { return ups[i].Eff > ups[j].Eff })
	sort.SliceStable(dns, func(i, j int) bool { return dns[i].Eff < dns[j].Eff })

	lo := out - pos
	hi := out + neg

	if hi-lo == 0 {
		lo -= 1
		hi += 1
	}

	{
		spa := (hi - lo) * 0.05
		lo -= spa
		hi += spa
	}

	sca := func(v float64) float64 {
		return chartPad + (v-lo)/(hi-lo)*(chartWid-2*chartPad)
	}

	cha := Chart{
		Wid:  chartWid,
		Hei:  chartHei,
		Bas:  att.Bas,
		BasX: sca(att.Bas),
		Out:  out,
		OutX: sca(out),
	}

	cur := out
	for _, c := range ups {
		lef := cur - c.Eff
		cha.Seg = append(cha.Seg, Segment{
			Nam: c.Nam,
			Val: c.Val,
			Eff: c.Eff,
			Up:  true,
			Col: Up,
			X:   sca(lef),
			W:   sca(cur) - sca(lef),
		})
		cur = lef
	}

	cur = out
	for _, c := range dns {
		rig := cur - c.Eff
		cha.Seg = append(cha.Seg, Segment{
			Nam: c.Nam,
			Val: c.Val,
			Eff: c.Eff,
			Up:  false,
			Col: Down,
			X:   sca(cur),
			W:   sca(rig) - sca(cur),
		})
		cur = rig
	}

	for i := 0; i < tickNum; i++ {
		v := lo + (hi-lo)*float64(i)/float64(tickNum-1)
		cha.Tic = append(cha.Tic, Tick{X: sca(v), Lab: fmt.Sprintf("%.1f", v)})
	}

	return cha
}
