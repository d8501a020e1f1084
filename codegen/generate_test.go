package codegen

import (
	"testing"

	"github.com/TopPano/ops-generator/opspec"
	"github.com/stretchr/testify/require"
)

const warpSpec = `
name: warp_perspective
inputs:
  - name: src
    shape: [none, none, 8UC3]
  - name: transform
    shape: [3, 3, 64F:FixedMatrix]
outputs:
  - name: dst
    shape: [none, none, 8UC3]
attributes:
  - name: interpolation
    type: int = 1
  - name: border_value
    type: float = 0.0
  - name: extrapolate
    type: bool = True
  - name: mode
    type: string = "constant"
`

const wantWarpSource = `/***** File generated by opsgen from warp_perspective.yaml. Don't edit it directly. *****/

#include <cmath>
#include <vector>

#include "kernels/warp_perspective.h"
#include "runtime/op_kernel.h"

namespace ops {

REGISTER_OP("WarpPerspective")
    .Input("src: uint8")
    .Input("transform: float64")
    .Output("dst: uint8")
    .Attr("interpolation: int = 1")
    .Attr("border_value: float = 0.0")
    .Attr("extrapolate: bool = true")
    .Attr("mode: string = \"constant\"");

class WarpPerspectiveOp : public OpKernel {
 public:
  explicit WarpPerspectiveOp(OpKernelConstruction* ctx) : OpKernel(ctx) {
    ctx->GetAttr("interpolation", &interpolation_);
    ctx->GetAttr("border_value", &border_value_);
    ctx->GetAttr("extrapolate", &extrapolate_);
    ctx->GetAttr("mode", &mode_);
  }

  void Compute(OpKernelContext* ctx) override {
    // src: Block(none, none, 8UC3)
    const auto src_array = ctx->Input<uint8, 3>(0);
    const int64_t src_n0 = src_array.dim(0);
    const int64_t src_n1 = src_array.dim(1);
    Block src({src_n0, src_n1}, "8UC3");
    for (int64_t src_i0 = 0; src_i0 < src_n0; src_i0++) {
      for (int64_t src_i1 = 0; src_i1 < src_n1; src_i1++) {
        src.at<uint8_t>(src_i0, src_i1, 0) = src_array(src_i0, src_i1, 0);
        src.at<uint8_t>(src_i0, src_i1, 1) = src_array(src_i0, src_i1, 1);
        src.at<uint8_t>(src_i0, src_i1, 2) = src_array(src_i0, src_i1, 2);
      }
    }

    // transform: Block(3, 3, 64F:FixedMatrix)
    const auto transform_array = ctx->Input<float64, 2>(1);
    const int64_t transform_n0 = 3;
    const int64_t transform_n1 = 3;
    FixedMatrix<double,3,3> transform;
    for (int64_t transform_i0 = 0; transform_i0 < transform_n0; transform_i0++) {
      for (int64_t transform_i1 = 0; transform_i1 < transform_n1; transform_i1++) {
        transform(transform_i0, transform_i1) = transform_array(transform_i0, transform_i1);
      }
    }

    Block dst;
    kernels::WarpPerspective(src, transform, interpolation_, border_value_, extrapolate_, mode_, dst);

    // dst: Block(none, none, 8UC3)
    const size_t dst_n0 = dst.size(0);
    const size_t dst_n1 = dst.size(1);
    auto dst_array = ctx->AllocateOutput<uint8, 3>(0, {static_cast<int64_t>(dst_n0), static_cast<int64_t>(dst_n1), 3});
    for (size_t dst_i0 = 0; dst_i0 < dst_n0; dst_i0++) {
      for (size_t dst_i1 = 0; dst_i1 < dst_n1; dst_i1++) {
        dst_array(dst_i0, dst_i1, 0) = dst.at<uint8_t>(dst_i0, dst_i1, 0);
        dst_array(dst_i0, dst_i1, 1) = dst.at<uint8_t>(dst_i0, dst_i1, 1);
        dst_array(dst_i0, dst_i1, 2) = dst.at<uint8_t>(dst_i0, dst_i1, 2);
      }
    }
  }

 private:
  int interpolation_;
  float border_value_;
  bool extrapolate_;
  std::string mode_;
};

REGISTER_KERNEL("WarpPerspective", WarpPerspectiveOp);

}  // namespace ops
`

func TestGenerate(t *testing.T) {
	op, err := opspec.UnmarshalOperator([]byte(warpSpec))
	require.NoError(t, err)
	out, err := Generate(op, "warp_perspective.yaml")
	require.NoError(t, err)
	require.Equal(t, "warp_perspective_op.cc", out.FileName)
	require.Empty(t, out.Warnings)
	require.Equal(t, wantWarpSource, out.Source)
}

func TestGenerateWarnings(t *testing.T) {
	op, err := opspec.UnmarshalOperator([]byte(`
name: pad_probe
inputs:
  - name: cells
    shape: [vector:none, vector:none, 2, 16U]
outputs:
  - name: score
    shape: [double]
`))
	require.NoError(t, err)
	out, err := Generate(op, "")
	require.NoError(t, err)
	require.Len(t, out.Warnings, 1)
	require.Contains(t, out.Warnings[0], "std::isnan")

	// The banner falls back to the operator name. Attribute-free operators
	// get an empty constructor and no member block.
	require.Contains(t, out.Source, "from pad_probe.yaml")
	require.Contains(t, out.Source, "explicit PadProbeOp(OpKernelConstruction* ctx) : OpKernel(ctx) {\n  }")
	require.NotContains(t, out.Source, " private:")
	require.Contains(t, out.Source, "const auto cells_array = ctx->Input<uint16, 3>(0);")
	require.Contains(t, out.Source, "kernels::PadProbe(cells, score);")
	require.Contains(t, out.Source, "auto score_array = ctx->AllocateOutput<float64, 1>(0, {1});")
}
